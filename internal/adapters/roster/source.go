package roster

import (
	"embed"
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed data/squad.yaml data/candidates.yaml
var bundled embed.FS

const (
	squadPath      = "data/squad.yaml"
	candidatesPath = "data/candidates.yaml"
)

// embedded serves a bundled file to koanf.
type embedded struct {
	path string
}

func (e embedded) ReadBytes() ([]byte, error) {
	return bundled.ReadFile(e.path)
}

func (e embedded) Read() (map[string]interface{}, error) {
	return nil, errors.New("embedded provider does not support Read()")
}

// load reads a YAML document from path, or from the bundled fallback when
// path is empty, and unmarshals it into out.
func load(path, fallback string, out interface{}) error {
	k := koanf.New(".")
	var p koanf.Provider = embedded{path: fallback}
	src := "bundled " + fallback
	if path != "" {
		p = file.Provider(path)
		src = path
	}
	if err := k.Load(p, yaml.Parser()); err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrLoadRoster, src, err)
	}
	if err := k.UnmarshalWithConf("", out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrLoadRoster, src, err)
	}
	return nil
}
