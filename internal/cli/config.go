package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the specroute.yaml file contents. Every field has a flag
// counterpart; explicitly set flags override file values.
type Config struct {
	// Path is the contract file or directory to process.
	Path string `mapstructure:"path"`
	// Validators names registry validators appended after the baseline.
	Validators []string `mapstructure:"validators"`
	// Strict enables strict model validation.
	Strict bool `mapstructure:"strict"`
	// Include is the set of discovery globs for directory walks.
	Include []string `mapstructure:"include"`
	// Watch configures the watch command.
	Watch WatchSettings `mapstructure:"watch"`
}

// WatchSettings tunes the watch command.
type WatchSettings struct {
	// Debounce is the quiet period in milliseconds before revalidating.
	Debounce int `mapstructure:"debounce"`
}

// configFileNames lists the config files searched in order when no --config
// flag is given.
var configFileNames = []string{
	"specroute.yaml",
	".specroute.yaml",
}

func defaultConfig() *Config {
	return &Config{
		Include: []string{"**/*.json"},
		Watch:   WatchSettings{Debounce: 500},
	}
}

// loadConfig reads the config file at configPath, or searches the working
// directory when configPath is empty. A missing file yields the defaults.
func loadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setConfigDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		found := false
		for _, name := range configFileNames {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				found = true
				break
			}
		}
		if !found {
			return defaultConfig(), nil
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return defaultConfig(), nil
		}
		return nil, newUsageError(fmt.Sprintf("config: cannot read %s: %v", v.ConfigFileUsed(), err))
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, newUsageError(fmt.Sprintf("config: cannot parse %s: %v", v.ConfigFileUsed(), err))
	}
	return cfg, nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("include", []string{"**/*.json"})
	v.SetDefault("watch.debounce", 500)
}
