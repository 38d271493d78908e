package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() Config {
	return Config{
		Sites: []Site{{
			Name:      "example",
			Dump:      "./dumps/example.sql",
			MediaRoot: "./www/example",
			Output:    "./site/example",
		}},
		Logging: LoggingConfig{Level: string(LogLevelInfo), Format: string(LogFormatText)},
		Watch:   WatchConfig{Debounce: DefaultDebounce.String()},
		Notify:  NotifyConfig{URL: "${DUMPSITE_NATS_URL}"},
	}
}

// Init writes an example configuration to path, in TOML when the extension is
// .toml. An existing file is only replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return derrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}
	example := Example()
	var (
		data []byte
		err  error
	)
	if FormatOf(path) == FormatTOML {
		data, err = toml.Marshal(example)
	} else {
		data, err = yaml.Marshal(example)
	}
	if err != nil {
		return derrors.InternalError("encode example configuration").WithCause(err).Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write configuration file").
			WithContext("path", path).Build()
	}
	return nil
}
