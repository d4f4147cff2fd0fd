package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LangProfile is a richer, YAML-loaded supplement to the plain-text -t
// type-name file: a profile can additionally reclassify existing words as
// keywords of a given kind (e.g. treating a project's "EXPORT" macro as if
// it were "static").
type LangProfile struct {
	// Types lists additional identifiers that should be treated as type
	// names wherever the tokenizer would otherwise emit a bare WORD,
	// mirroring the -t file's one-name-per-line entries.
	Types []string `yaml:"types"`

	// Keywords maps a word to the name of the chunk.Kind it should be
	// reclassified as (e.g. "EXPORT: static"), letting a project extend
	// the built-in keyword table without a code change.
	Keywords map[string]string `yaml:"keywords"`
}

// LoadLangProfile reads a YAML language profile from path.
func LoadLangProfile(path string) (*LangProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p LangProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// TypeSet returns Types as a lookup set, ready to merge into
// langs.BuiltinTypes.
func (p *LangProfile) TypeSet() map[string]bool {
	set := make(map[string]bool, len(p.Types))
	for _, t := range p.Types {
		set[t] = true
	}
	return set
}
