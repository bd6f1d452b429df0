package ruleset

import (
	"github.com/txn2/data-validator/pkg/config"
	"github.com/txn2/data-validator/pkg/validator"
	"github.com/txn2/data-validator/pkg/validator/db"
	"github.com/txn2/data-validator/pkg/validator/uri"
)

// RegisterBuiltinFactories registers all built-in rule factories.
func RegisterBuiltinFactories(r *Registry) {
	r.RegisterFactory(config.KindRecordExists, RecordExistsFactory)
	r.RegisterFactory(config.KindNoRecordExists, NoRecordExistsFactory)
	r.RegisterFactory(config.KindURI, URIFactory)
}

// RecordExistsFactory creates a RecordExists rule from configuration.
func RecordExistsFactory(cfg map[string]any, deps Deps) (validator.Validator, error) {
	c, err := recordConfig(cfg, deps)
	if err != nil {
		return nil, err
	}
	return db.NewRecordExists(c)
}

// NoRecordExistsFactory creates a NoRecordExists rule from configuration.
func NoRecordExistsFactory(cfg map[string]any, deps Deps) (validator.Validator, error) {
	c, err := recordConfig(cfg, deps)
	if err != nil {
		return nil, err
	}
	return db.NewNoRecordExists(c)
}

// URIFactory creates a Uri rule from configuration.
func URIFactory(cfg map[string]any, deps Deps) (validator.Validator, error) {
	o, err := uri.ParseConfig(cfg)
	if err != nil {
		return nil, err
	}
	o.Logger = deps.Logger
	return uri.NewWithOptions(o)
}

func recordConfig(cfg map[string]any, deps Deps) (db.Config, error) {
	c, err := db.ParseConfig(cfg)
	if err != nil {
		return c, err
	}
	c.Adapter = deps.Adapter
	c.Logger = deps.Logger
	return c, nil
}
