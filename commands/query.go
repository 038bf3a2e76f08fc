package commands

import (
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"absenceio/config"
	"absenceio/log"
	"absenceio/output"
	"absenceio/restapi"
	"absenceio/storage"
)

// Query sends a request to absence.io, writes the records through the
// selected output and records the request in the history file.
func Query() *cli.Command {
	cfg := config.Config{}
	req := request{}
	var all bool

	flags := append(requestFlags(&req), apiFlags(&cfg)...)
	flags = append(flags, encodeFlags(&cfg)...)
	flags = append(flags, outputFlags(&cfg)...)
	flags = append(flags, historyFlags(&cfg)...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "all",
		Usage:       "follow skip until totalCount records are read",
		Destination: &all,
	})
	flags, before := withConfigFile(&cfg, flags)

	return &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "query an absence.io endpoint",
		Flags:   flags,
		Before:  before,
		Action: func(c *cli.Context) error {
			req.load(c)
			if err := cfg.Validate(); err != nil {
				return err
			}
			ep, err := lookupEndpoint(req.endpoint)
			if err != nil {
				return err
			}

			out, err := output.New(cfg.Output, cfg)
			if err != nil {
				return err
			}
			defer out.Close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			result, err := ep.query(ctx, restapi.New(cfg), req, all, out)
			if result != nil && result.Body != nil {
				record(cfg.HistoryPath, req.endpoint, result.Body, err)
			}
			if err != nil {
				return err
			}
			log.Infof("%s: wrote %d of %d records", req.endpoint, result.Records, result.TotalCount)
			return nil
		},
	}
}

// record stores a sent request. History failures are logged, never fatal.
func record(path, endpoint string, body []byte, sendErr error) {
	if path == "" {
		return
	}
	history, err := storage.OpenHistory(path)
	if err != nil {
		log.Warnf("history: %v", err)
		return
	}
	defer history.Close()

	entry := storage.HistoryEntry{Endpoint: endpoint, Body: body, Status: http.StatusOK}
	if sendErr != nil {
		entry.Status = 0
		entry.Error = sendErr.Error()
		var statusErr *restapi.StatusError
		if errors.As(sendErr, &statusErr) {
			entry.Status = statusErr.StatusCode
		}
	}
	if _, err := history.Add(entry); err != nil {
		log.Warnf("history: %v", err)
	}
}
