package plugins

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absenceio/config"
	"absenceio/output"
)

func TestStdoutWritesLines(t *testing.T) {
	var buf bytes.Buffer
	out := NewStdout(&buf)
	require.NoError(t, out.WriteRecord("users", []byte(`{"a":1}`)))
	require.NoError(t, out.WriteRecord("users", []byte(`{"a":2}`)))
	require.NoError(t, out.Close())
	assert.Equal(t, "{\"a\":1}\n{\"a\":2}\n", buf.String())
}

type fakePublisher struct {
	topics  []string
	bodies  []string
	err     error
	stopped bool
}

func (f *fakePublisher) Publish(topic string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.bodies = append(f.bodies, string(body))
	return nil
}

func (f *fakePublisher) Stop() { f.stopped = true }

func TestNSQTopicSelection(t *testing.T) {
	p := &fakePublisher{}
	require.NoError(t, NewNSQ(p, "").WriteRecord("absences", []byte(`{}`)))
	require.NoError(t, NewNSQ(p, "audit").WriteRecord("absences", []byte(`{"x":1}`)))
	assert.Equal(t, []string{"absences", "audit"}, p.topics)
	assert.Equal(t, []string{`{}`, `{"x":1}`}, p.bodies)
}

func TestNSQPublishError(t *testing.T) {
	p := &fakePublisher{err: errors.New("down")}
	out := NewNSQ(p, "t")
	assert.Error(t, out.WriteRecord("users", []byte(`{}`)))
	require.NoError(t, out.Close())
	assert.True(t, p.stopped)
}

func TestRegistry(t *testing.T) {
	assert.Contains(t, output.Names(), "stdout")
	assert.Contains(t, output.Names(), "nsq")
	_, err := output.New("missing", config.Config{})
	assert.Error(t, err)
	out, err := output.New("stdout", config.Config{})
	require.NoError(t, err)
	require.NoError(t, out.Close())
}
