package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/torosent/bindcheck/internal/config"
	"github.com/torosent/bindcheck/internal/logging"
	"github.com/torosent/bindcheck/internal/output"
	"github.com/torosent/bindcheck/internal/sqlvars"
)

// ErrWarnings is returned in strict mode when the simulation reported warnings.
var ErrWarnings = errors.New("variable binding produced warnings")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	template, err := cfg.Template()
	if err != nil {
		return err
	}
	params, err := cfg.Parameters(logger)
	if err != nil {
		return err
	}

	logger.Debug("simulating substitution",
		zap.Int("params", len(params)),
		zap.Strings("placeholders", sqlvars.Tokens(template)),
	)
	result := sqlvars.Simulate(template, params, logger)

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(stdout, template, result); err != nil {
			return err
		}
	} else {
		output.PrintReport(stdout, template, result)
	}

	if cfg.Strict {
		if n := result.Warnings(); n > 0 {
			return fmt.Errorf("%w: %d warning(s)", ErrWarnings, n)
		}
	}
	return nil
}
