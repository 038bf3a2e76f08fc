package commands

import (
	"time"

	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"

	"absenceio/config"
	"absenceio/def"
	"absenceio/filter"
	"absenceio/log"
)

const configFlag = "config"

// request holds the request-shaping flags shared by encode and query.
type request struct {
	endpoint  string
	skip      int
	limit     int
	where     []string
	anyOf     []string
	relations []string
}

// load reads the slice flags, which have no destination.
func (req *request) load(c *cli.Context) {
	req.where = c.StringSlice("where")
	req.anyOf = c.StringSlice("any")
	req.relations = c.StringSlice("relation")
}

func configFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    configFlag,
		Aliases: []string{"c"},
		Usage:   "load flag values from a YAML file",
		EnvVars: []string{"ABSENCE_CONFIG"},
	}
}

func apiFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "api.url",
			Value:       def.DefaultBaseURL,
			Usage:       "the absence.io base url",
			EnvVars:     []string{"ABSENCE_URL"},
			Destination: &cfg.BaseURL,
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "api.hawk.id",
			Usage:       "the hawk key id",
			EnvVars:     []string{"ABSENCE_HAWK_ID"},
			Destination: &cfg.Hawk.ID,
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "api.hawk.key",
			Usage:       "the hawk key",
			EnvVars:     []string{"ABSENCE_HAWK_KEY"},
			Destination: &cfg.Hawk.Key,
		}),
		altsrc.NewDurationFlag(&cli.DurationFlag{
			Name:        "api.timeout",
			Value:       30 * time.Second,
			Usage:       "request timeout",
			Destination: &cfg.Timeout,
		}),
	}
}

func encodeFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "encode.date-layout",
			Value:       filter.DefaultDateLayout,
			Usage:       "Go time layout for dates inside filters",
			Destination: &cfg.DateLayout,
		}),
	}
}

func historyFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "history.path",
			Value:       "absence-history.db",
			Usage:       "the bolt file recording sent queries",
			EnvVars:     []string{"ABSENCE_HISTORY"},
			Destination: &cfg.HistoryPath,
		}),
	}
}

func outputFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Value:       "stdout",
			Usage:       "where records go: stdout or nsq",
			Destination: &cfg.Output,
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "output.nsq.url",
			Value:       "127.0.0.1:4150",
			Usage:       "the nsqd address",
			Destination: &cfg.OutputNsq.NsqServer,
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "output.nsq.topic",
			Usage:       "the nsq topic, the endpoint name when empty",
			Destination: &cfg.OutputNsq.Topic,
		}),
	}
}

func storageFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "serve.listen",
			Value:       "127.0.0.1:8080",
			Usage:       "the listen address",
			Destination: &cfg.Listen,
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "storage",
			Value:       "mongodb",
			Usage:       "the storage answering queries",
			Destination: &cfg.StorageName,
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "storage.mongodb.url",
			Value:       "127.0.0.1:27017",
			Usage:       "the mongodb url",
			EnvVars:     []string{"ABSENCE_MONGO"},
			Destination: &cfg.Mongo.MongoServer,
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "storage.mongodb.database",
			Value:       def.DATA_BASE,
			Usage:       "the mongodb database",
			Destination: &cfg.Mongo.Database,
		}),
	}
}

func requestFlags(req *request) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "endpoint",
			Aliases:     []string{"e"},
			Value:       "absences",
			Usage:       "the entity endpoint: " + endpointNames(),
			Destination: &req.endpoint,
		},
		&cli.IntFlag{
			Name:        "skip",
			Usage:       "records to skip",
			Destination: &req.skip,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Value:       def.DefaultLimit,
			Usage:       "records per page",
			Destination: &req.limit,
		},
		&cli.StringSliceFlag{
			Name:    "where",
			Aliases: []string{"w"},
			Usage:   "filter expression, e.g. start>=2024-01-01 or assignedToId:users/teamId=in(t1,t2); repeat to AND",
		},
		&cli.StringSliceFlag{
			Name:  "any",
			Usage: "alternatives separated by '|', matched with $or",
		},
		&cli.StringSliceFlag{
			Name:    "relation",
			Aliases: []string{"r"},
			Usage:   "relation to expand in the response",
		},
	}
}

func logFlag(cfg *config.Config) cli.Flag {
	return altsrc.NewStringFlag(&cli.StringFlag{
		Name:        "log.level",
		Usage:       "debug, info, warn or error; overrides --log-level",
		Destination: &cfg.LogLevel,
	})
}

// withConfigFile appends the --config and --log.level flags, loads the altsrc
// flags from the YAML file --config names and applies the log level.
func withConfigFile(cfg *config.Config, flags []cli.Flag) ([]cli.Flag, cli.BeforeFunc) {
	flags = append(flags, logFlag(cfg), configFileFlag())
	load := altsrc.InitInputSourceWithContext(flags, altsrc.NewYamlSourceFromFlagFunc(configFlag))
	return flags, func(c *cli.Context) error {
		if c.String(configFlag) != "" {
			if err := load(c); err != nil {
				return err
			}
		}
		if cfg.LogLevel != "" {
			log.SetLevel(cfg.LogLevel)
		}
		return nil
	}
}
