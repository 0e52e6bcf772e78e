package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/torosent/bindcheck/internal/variables"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and configuration files to produce a Config.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	// If no arguments provided and no config file, show help/usage
	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	settings := cfgViper.AllSettings()

	cfg := &Config{
		LogLevel:   "info",
		ConfigFile: configPath,
	}

	if err := applyConfigSettings(cfg, settings); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := applyConfigFileParams(cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.SQLFile = strings.TrimSpace(cfg.SQLFile)
	cfg.ParamsFile = strings.TrimSpace(cfg.ParamsFile)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	return cfg, nil
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "sql"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("sql: %w", err)
		}
		cfg.SQL = val
	}

	if raw, ok := lookupSetting(settings, "sqlfile", "sql_file", "sql-file"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("sqlFile: %w", err)
		}
		cfg.SQLFile = val
	}

	if raw, ok := lookupSetting(settings, "params"); ok {
		params, err := parseParams(raw)
		if err != nil {
			return fmt.Errorf("params: %w", err)
		}
		cfg.Params = params
	}

	if raw, ok := lookupSetting(settings, "paramsfile", "params_file", "params-file"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("paramsFile: %w", err)
		}
		cfg.ParamsFile = val
	}

	if raw, ok := lookupSetting(settings, "paramspath", "params_path", "params-path"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("paramsPath: %w", err)
		}
		cfg.ParamsPath = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "jsonoutput", "json_output", "json-output"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("jsonOutput: %w", err)
		}
		cfg.JSONOutput = val
	}

	if raw, ok := lookupSetting(settings, "loglevel", "log_level", "log-level"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("logLevel: %w", err)
		}
		if val != "" {
			cfg.LogLevel = val
		}
	}

	if raw, ok := lookupSetting(settings, "strict"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("strict: %w", err)
		}
		cfg.Strict = val
	}

	return nil
}

// parseParams converts the params setting into ordered parameters.
func parseParams(value interface{}) (variables.Params, error) {
	if value == nil {
		return nil, nil
	}
	m, err := toStringKeyMap(value)
	if err != nil {
		return nil, err
	}
	return variables.FromMap(m), nil
}

// applyConfigFileParams re-reads the params section of a JSON or YAML config
// file directly. Viper lowercases keys and splits them on dots, which would
// rename parameters such as "UserId" or "a.b". Other config formats keep the
// viper-decoded params.
func applyConfigFileParams(cfg *Config, path string) error {
	var decode func([]byte) (variables.Params, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decode = func(data []byte) (variables.Params, error) {
			return variables.DecodeJSONPath(data, "params")
		}
	case ".yaml", ".yml":
		decode = func(data []byte) (variables.Params, error) {
			return variables.DecodeYAMLKey(data, "params")
		}
	default:
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	params, err := decode(data)
	if err != nil {
		if errors.Is(err, variables.ErrPathNotFound) {
			return nil
		}
		return fmt.Errorf("params: %w", err)
	}
	cfg.Params = params
	return nil
}
