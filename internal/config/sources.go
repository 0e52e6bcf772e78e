package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/torosent/bindcheck/internal/variables"
)

// Template returns the SQL template, reading SQLFile when no inline SQL is set.
func (c Config) Template() (string, error) {
	if c.SQL != "" || c.SQLFile == "" {
		return c.SQL, nil
	}
	data, err := os.ReadFile(c.SQLFile)
	if err != nil {
		return "", fmt.Errorf("read sql file: %w", err)
	}
	return string(data), nil
}

// Parameters merges every parameter source in precedence order: config file
// params, then the params file, then --param flags. A later source replaces the
// values of an earlier one but the parameter keeps its first position. Names
// that differ only in case are logged as warnings; within one source they are
// all kept and applied in order.
func (c Config) Parameters(logger *zap.Logger) (variables.Params, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := variables.NewStore()
	logCollisions(logger, "config", store.Merge(c.Params))

	if c.ParamsFile != "" {
		params, err := c.readParamsFile()
		if err != nil {
			return nil, err
		}
		logCollisions(logger, c.ParamsFile, store.Merge(params))
	}

	logCollisions(logger, "flags", store.Merge(c.FlagParams))
	return store.Params(), nil
}

func logCollisions(logger *zap.Logger, source string, collisions []variables.Collision) {
	for _, col := range collisions {
		fields := []zap.Field{
			zap.String("variable", col.Name),
			zap.String("other", col.Other),
			zap.String("source", source),
		}
		if col.Replaced {
			logger.Warn("parameter name differs only in case from an earlier source and replaces its values", fields...)
			continue
		}
		logger.Warn("parameter names differ only in case, both are applied in order", fields...)
	}
}

func (c Config) readParamsFile() (variables.Params, error) {
	format, err := c.ParamsFileFormat()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.ParamsFile)
	if err != nil {
		return nil, fmt.Errorf("read params file: %w", err)
	}

	var params variables.Params
	switch format {
	case ParamsFormatJSON:
		params, err = variables.DecodeJSONPath(data, c.ParamsPath)
	case ParamsFormatYAML:
		params, err = variables.DecodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("params file %s: %w", c.ParamsFile, err)
	}
	return params, nil
}
