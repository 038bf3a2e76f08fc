package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"absenceio/config"
	"absenceio/storage"
)

// History lists the requests recorded by query.
func History() *cli.Command {
	cfg := config.Config{}
	var verbose bool
	flags, before := withConfigFile(&cfg, append(historyFlags(&cfg), &cli.BoolFlag{
		Name:        "verbose",
		Aliases:     []string{"v"},
		Usage:       "print request bodies",
		Destination: &verbose,
	}))
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"ls"},
		Usage:   "list sent queries",
		Flags:   flags,
		Before:  before,
		Action: func(c *cli.Context) error {
			history, err := storage.OpenHistory(cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer history.Close()

			entries, err := history.List()
			if err != nil {
				return err
			}
			for _, entry := range entries {
				status := fmt.Sprint(entry.Status)
				if entry.Error != "" {
					status += " " + entry.Error
				}
				fmt.Fprintf(c.App.Writer, "%s  %-10s %-14s %s (%s)\n",
					shortID(entry.ID), entry.Endpoint, humanize.Time(entry.CreatedAt), status, humanize.Bytes(uint64(len(entry.Body))))
				if verbose {
					fmt.Fprintf(c.App.Writer, "    %s\n", entry.Body)
				}
			}
			return nil
		},
	}
}

// Clear empties the history file.
func Clear() *cli.Command {
	cfg := config.Config{}
	flags, before := withConfigFile(&cfg, historyFlags(&cfg))
	return &cli.Command{
		Name:   "clear",
		Usage:  "clear the query history",
		Flags:  flags,
		Before: before,
		Action: func(c *cli.Context) error {
			history, err := storage.OpenHistory(cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer history.Close()

			n, err := history.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "removed %s queries\n", humanize.Comma(int64(n)))
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
