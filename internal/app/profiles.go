package app

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/superstore-bi/superstore-bi/internal/insights"
)

// LoadProfiles layers the optional YAML file over the built-in profiles.
// Keys missing from the file keep their defaults. The file looks like:
//
//	profiles:
//	  executive:
//	    insights:
//	      high_margin: 22
func LoadProfiles(path string) (insights.Profiles, error) {
	profiles := insights.DefaultProfiles()
	if path == "" {
		return profiles, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("profiles: load %s: %w", path, err)
	}

	for _, name := range k.MapKeys("profiles") {
		base, ok := profiles[name]
		if !ok {
			return nil, fmt.Errorf("profiles: unknown profile %q in %s", name, path)
		}
		if err := k.UnmarshalWithConf("profiles."+name, &base, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
			return nil, fmt.Errorf("profiles: decode %s: %w", name, err)
		}
		base.Name = name
		if err := base.Validate(); err != nil {
			return nil, err
		}
		profiles[name] = base
	}
	return profiles, nil
}
