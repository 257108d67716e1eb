package generator

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/oaeproject/model-loader/internal/common/config"
)

// LoadProfiles reads a YAML profile file and merges it over DefaultProfiles. Maps are merged key by
// key; any other value, including a distribution, replaces the default outright. Distributions
// may be written in the tuple forms, e.g. [3, 2, 0, 25] and [[0.7, public], [0.3, private]].
func LoadProfiles(path string) (Profiles, error) {
	if path == "" {
		return DefaultProfiles(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profiles{}, errors.WithStack(err)
	}
	return ParseProfiles(data)
}

// ParseProfiles is LoadProfiles on an in-memory document.
func ParseProfiles(data []byte) (Profiles, error) {
	overrides := map[interface{}]interface{}{}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Profiles{}, errors.Wrap(err, "parsing profile yaml")
	}

	defaults, err := toGeneric(DefaultProfiles())
	if err != nil {
		return Profiles{}, err
	}
	merged := merge(defaults, normalise(overrides).(map[string]interface{}))

	var profiles Profiles
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       config.DecodeHook(),
		TagName:          "json",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &profiles,
	})
	if err != nil {
		return Profiles{}, errors.WithStack(err)
	}
	if err := decoder.Decode(merged); err != nil {
		return Profiles{}, errors.Wrap(err, "decoding profiles")
	}
	return profiles, nil
}

func toGeneric(p Profiles) (map[string]interface{}, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	generic := map[string]interface{}{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, errors.WithStack(err)
	}
	return generic, nil
}

// normalise turns the map[interface{}]interface{} values produced by yaml.v2 into
// map[string]interface{} so they can be merged with the defaults.
func normalise(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalise(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalise(val)
		}
		return out
	default:
		return v
	}
}

// merge copies override into base. Nested maps are merged, everything else is replaced. A
// magnitude override in map form only replaces the fields it names.
func merge(base, override map[string]interface{}) map[string]interface{} {
	for k, v := range override {
		baseMap, baseIsMap := base[k].(map[string]interface{})
		overrideMap, overrideIsMap := v.(map[string]interface{})
		if baseIsMap && overrideIsMap {
			base[k] = merge(baseMap, overrideMap)
			continue
		}
		base[k] = v
	}
	return base
}
