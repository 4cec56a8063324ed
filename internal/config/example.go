package config

import (
	_ "embed"
	"os"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
)

//go:embed example.yaml
var exampleConfig []byte

// Example returns the annotated example configuration.
func Example() []byte {
	return append([]byte(nil), exampleConfig...)
}

// WriteExample writes the example configuration to path. An existing file is
// only replaced when force is set.
func WriteExample(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists").
			WithContext("path", path).
			WithContext("reason", "use --force to overwrite").
			Build()
	}
	if err := os.WriteFile(path, exampleConfig, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration file").
			WithContext("path", path).
			Build()
	}
	return nil
}
