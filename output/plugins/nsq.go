package plugins

import (
	"fmt"

	"github.com/nsqio/go-nsq"

	"absenceio/config"
	"absenceio/def"
	"absenceio/log"
	"absenceio/output"
)

// Publisher is the part of *nsq.Producer the output uses.
type Publisher interface {
	Publish(topic string, body []byte) error
	Stop()
}

// OutputNSQ publishes each record to a topic, the endpoint name unless one
// is configured.
type OutputNSQ struct {
	topic    string
	producer Publisher
}

func init() {
	output.Add("nsq", func(config config.Config) (def.Outputer, error) {
		producer, err := nsq.NewProducer(config.OutputNsq.NsqServer, nsq.NewConfig())
		if err != nil {
			return nil, fmt.Errorf("nsq producer %s: %w", config.OutputNsq.NsqServer, err)
		}
		if err := producer.Ping(); err != nil {
			producer.Stop()
			return nil, fmt.Errorf("nsq ping %s: %w", config.OutputNsq.NsqServer, err)
		}
		log.Infof("publishing records to nsqd %s", config.OutputNsq.NsqServer)
		return NewNSQ(producer, config.OutputNsq.Topic), nil
	})
}

func NewNSQ(producer Publisher, topic string) *OutputNSQ {
	return &OutputNSQ{topic: topic, producer: producer}
}

func (srv *OutputNSQ) WriteRecord(endpoint string, record []byte) error {
	topic := srv.topic
	if topic == "" {
		topic = endpoint
	}
	if err := srv.producer.Publish(topic, record); err != nil {
		return fmt.Errorf("nsq publish %s: %w", topic, err)
	}
	def.OutputRecordCount.Inc(1)
	return nil
}

func (srv *OutputNSQ) Close() error {
	srv.producer.Stop()
	return nil
}
