package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/torosent/bindcheck/internal/logging"
	"github.com/torosent/bindcheck/internal/variables"
)

type Config struct {
	SQL        string           `mapstructure:"sql"`
	SQLFile    string           `mapstructure:"sql_file"`
	Params     variables.Params `mapstructure:"params"`
	ParamsFile string           `mapstructure:"params_file"`
	ParamsPath string           `mapstructure:"params_path"` // JSON path of the parameter object inside ParamsFile
	FlagParams variables.Params `mapstructure:"-"`           // --param assignments, in flag order
	JSONOutput bool             `mapstructure:"json_output"`
	LogLevel   string           `mapstructure:"log_level"`
	Strict     bool             `mapstructure:"strict"`
	ConfigFile string           `mapstructure:"-"`
}

type ParamsFormat string

const (
	ParamsFormatJSON ParamsFormat = "json"
	ParamsFormatYAML ParamsFormat = "yaml"
)

// ParamsFileFormat derives the params file format from its extension.
func (c Config) ParamsFileFormat() (ParamsFormat, error) {
	switch strings.ToLower(filepath.Ext(c.ParamsFile)) {
	case ".json":
		return ParamsFormatJSON, nil
	case ".yaml", ".yml":
		return ParamsFormatYAML, nil
	default:
		return "", fmt.Errorf("params file %q must have a .json, .yaml or .yml extension", c.ParamsFile)
	}
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	hasSQL := strings.TrimSpace(c.SQL) != ""
	hasSQLFile := strings.TrimSpace(c.SQLFile) != ""
	switch {
	case !hasSQL && !hasSQLFile:
		issues = append(issues, "sql or sqlFile is required (use --help for usage information)")
	case hasSQL && hasSQLFile:
		issues = append(issues, "sql and sqlFile are mutually exclusive")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		issues = append(issues, err.Error())
	}

	if strings.TrimSpace(c.ParamsFile) != "" {
		format, err := c.ParamsFileFormat()
		if err != nil {
			issues = append(issues, err.Error())
		} else if c.ParamsPath != "" && format != ParamsFormatJSON {
			issues = append(issues, "paramsPath is only supported for JSON params files")
		}
	} else if c.ParamsPath != "" {
		issues = append(issues, "paramsPath requires paramsFile")
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
