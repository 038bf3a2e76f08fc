package output

import (
	"fmt"
	"sort"

	"absenceio/config"
	"absenceio/def"
)

var Outputs = map[string]Creator{}

type Creator func(config2 config.Config) (def.Outputer, error)

func Add(name string, creator Creator) {
	Outputs[name] = creator
}

// New builds the output registered under name.
func New(name string, cfg config.Config) (def.Outputer, error) {
	creator, ok := Outputs[name]
	if !ok {
		return nil, fmt.Errorf("output %q not registered (have %v)", name, Names())
	}
	return creator(cfg)
}

func Names() []string {
	names := make([]string, 0, len(Outputs))
	for name := range Outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
