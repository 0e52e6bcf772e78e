package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/torosent/bindcheck/internal/variables"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bindcheck",
		Short:         "Simulate $variable$ substitution in dashboard SQL templates",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Template flags
	flags.String("sql", "", "Inline SQL template containing $variable$ placeholders")
	flags.String("sql-file", "", "Path to file containing the SQL template")

	// Parameter flags
	flags.StringArrayP("param", "p", nil, "Variable binding in name=value[,value] form (repeatable, name= binds an empty list)")
	flags.String("params-file", "", "Path to JSON or YAML file mapping variable names to value lists")
	flags.String("params-path", "", "JSON path of the parameter object inside a JSON params file (e.g. params)")

	// Output flags
	flags.Bool("json-output", false, "Emit JSON formatted output")
	flags.String("log-level", "info", "Diagnostics log level (debug, info, warn, error)")
	flags.Bool("strict", false, "Exit with an error when any binding produced a warning")
	flags.String("config", "", "Path to configuration file (JSON or YAML; params names keep their case only in JSON and YAML files)")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("sql") && fs.Changed("sql-file") {
		return fmt.Errorf("--sql and --sql-file are mutually exclusive")
	}
	if fs.Changed("sql") {
		val, err := fs.GetString("sql")
		if err != nil {
			return err
		}
		cfg.SQL = val
		cfg.SQLFile = ""
	}
	if fs.Changed("sql-file") {
		val, err := fs.GetString("sql-file")
		if err != nil {
			return err
		}
		cfg.SQLFile = strings.TrimSpace(val)
		cfg.SQL = ""
	}
	if fs.Changed("param") {
		vals, err := fs.GetStringArray("param")
		if err != nil {
			return err
		}
		params := make(variables.Params, 0, len(vals))
		for _, raw := range vals {
			p, err := variables.ParseAssignment(raw)
			if err != nil {
				return fmt.Errorf("param: %w", err)
			}
			params = append(params, p)
		}
		cfg.FlagParams = params
	}
	if fs.Changed("params-file") {
		val, err := fs.GetString("params-file")
		if err != nil {
			return err
		}
		cfg.ParamsFile = strings.TrimSpace(val)
	}
	if fs.Changed("params-path") {
		val, err := fs.GetString("params-path")
		if err != nil {
			return err
		}
		cfg.ParamsPath = strings.TrimSpace(val)
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("log-level") {
		val, err := fs.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = strings.TrimSpace(val)
	}
	if fs.Changed("strict") {
		val, err := fs.GetBool("strict")
		if err != nil {
			return err
		}
		cfg.Strict = val
	}

	return nil
}
