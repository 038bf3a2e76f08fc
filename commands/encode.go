package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"absenceio/config"
	"absenceio/filter"
)

// Encode prints the request document a query would send, without sending it.
func Encode() *cli.Command {
	cfg := config.Config{}
	req := request{}
	flags, before := withConfigFile(&cfg, append(requestFlags(&req), encodeFlags(&cfg)...))
	return &cli.Command{
		Name:    "encode",
		Aliases: []string{"e"},
		Usage:   "print the request body for a query",
		Flags:   flags,
		Before:  before,
		Action: func(c *cli.Context) error {
			req.load(c)
			ep, err := lookupEndpoint(req.endpoint)
			if err != nil {
				return err
			}
			body, err := ep.encode(req, filter.NewEncoder(filter.WithDateLayout(cfg.DateLayout)))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, string(body))
			return nil
		},
	}
}
