package uri

import (
	"fmt"

	"github.com/txn2/data-validator/pkg/validator"
)

// ParseConfig parses validator options from a map. Recognized keys:
// handler (identifier), allow_absolute and allow_relative (default true).
func ParseConfig(cfg map[string]any) (Options, error) {
	o := DefaultOptions()

	if raw, ok := cfg["handler"]; ok && raw != nil {
		id, isString := raw.(string)
		if !isString {
			return o, validator.NewConfigError(fmt.Sprintf("handler of type %T", raw), ErrInvalidHandler)
		}
		if id != "" {
			o.Handler = id
		}
	}

	var err error
	if o.AllowAbsolute, err = getBool(cfg, "allow_absolute", o.AllowAbsolute); err != nil {
		return o, err
	}
	if o.AllowRelative, err = getBool(cfg, "allow_relative", o.AllowRelative); err != nil {
		return o, err
	}
	return o, nil
}

func getBool(cfg map[string]any, key string, def bool) (bool, error) {
	raw, ok := cfg[key]
	if !ok || raw == nil {
		return def, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return def, validator.NewConfigError(fmt.Sprintf("%s must be a boolean, got %T", key, raw), nil)
	}
	return b, nil
}
