package plugins

import (
	"bufio"
	"io"
	"os"
	"sync"

	"absenceio/config"
	"absenceio/def"
	"absenceio/output"
)

// OutputStdout writes one record per line.
type OutputStdout struct {
	lock sync.Mutex
	w    *bufio.Writer
}

func init() {
	output.Add("stdout", func(config config.Config) (def.Outputer, error) {
		return NewStdout(os.Stdout), nil
	})
}

func NewStdout(w io.Writer) *OutputStdout {
	return &OutputStdout{w: bufio.NewWriter(w)}
}

func (srv *OutputStdout) WriteRecord(endpoint string, record []byte) error {
	srv.lock.Lock()
	defer srv.lock.Unlock()
	if _, err := srv.w.Write(record); err != nil {
		return err
	}
	def.OutputRecordCount.Inc(1)
	return srv.w.WriteByte('\n')
}

func (srv *OutputStdout) Close() error {
	srv.lock.Lock()
	defer srv.lock.Unlock()
	return srv.w.Flush()
}
