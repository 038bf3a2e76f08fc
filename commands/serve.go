package commands

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	"absenceio/config"
	"absenceio/log"
	HttpServer "absenceio/server"
	"absenceio/storage"
)

// Serve runs the mock query backend on top of a storage plugin.
func Serve() *cli.Command {
	cfg := config.Config{}
	flags := append(storageFlags(&cfg), apiFlags(&cfg)...)
	flags, before := withConfigFile(&cfg, flags)
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "start a mock absence.io query api",
		Flags:   flags,
		Before:  before,
		Action: func(c *cli.Context) error {
			store, err := storage.New(cfg.StorageName, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := HttpServer.New(cfg, store)
			go func() {
				ch := make(chan os.Signal, 1)
				signal.Notify(ch, os.Interrupt)
				<-ch
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					log.Warnf("shutdown: %v", err)
				}
			}()
			return srv.Start()
		},
	}
}
