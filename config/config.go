package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config carries everything the commands, the client and the mock backend
// need. It is filled from CLI flags, environment variables and an optional
// YAML file.
type Config struct {
	BaseURL    string
	Hawk       HawkConfig
	Timeout    time.Duration
	DateLayout string
	LogLevel   string

	HistoryPath string
	Output      string
	OutputNsq   NsqConfig

	Listen      string
	StorageName string
	Mongo       MongoConfig
}

// HawkConfig holds the API key pair issued by absence.io.
type HawkConfig struct {
	ID  string
	Key string
}

type MongoConfig struct {
	MongoServer string
	Database    string
}

type NsqConfig struct {
	NsqServer string
	Topic     string
}

// Validate checks the fields the query client depends on.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("config: base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: base url %q must be http or https", c.BaseURL)
	}
	if c.Hawk.ID == "" || c.Hawk.Key == "" {
		return errors.New("config: hawk id and key are required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: negative timeout %s", c.Timeout)
	}
	return nil
}
