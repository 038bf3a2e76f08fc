package storage

import (
	"fmt"

	"absenceio/config"
	"absenceio/def"
)

var Storages = map[string]Creator{}

type Creator func(config2 config.Config) (def.Storager, error)

func Add(name string, creator Creator) {
	Storages[name] = creator
}

// New opens the storage registered under name.
func New(name string, cfg config.Config) (def.Storager, error) {
	creator, ok := Storages[name]
	if !ok {
		return nil, fmt.Errorf("storage %q not registered", name)
	}
	return creator(cfg)
}
