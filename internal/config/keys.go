package config

import (
	"reflect"
	"strings"
)

// Keys lists every dotted config key ("openai.api_key", ...) derived from the
// mapstructure tags, so each one can be bound to an environment variable.
func Keys() []string {
	return collectKeys(reflect.TypeOf(Config{}), "")
}

func collectKeys(t reflect.Type, prefix string) []string {
	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("mapstructure"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if f.Type.Kind() == reflect.Struct {
			out = append(out, collectKeys(f.Type, key)...)
			continue
		}
		out = append(out, key)
	}
	return out
}
