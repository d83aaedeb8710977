/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sysconf-dev/sysconf/pkg/errors"
	"github.com/sysconf-dev/sysconf/pkg/schema"
	"github.com/sysconf-dev/sysconf/pkg/serializer"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the result to this file instead of stdout",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   fmt.Sprintf("Output format, one of: %s", strings.Join(serializer.SupportedFormats(), ", ")),
		Value:   string(serializer.FormatYAML),
	}

	schemaVersionFlag = &cli.StringFlag{
		Name:    "schema-version",
		Usage:   "Option schema version to resolve against",
		Value:   schema.DefaultVersion,
		Sources: cli.EnvVars("SYSCONF_SCHEMA_VERSION"),
	}

	setFlag = &cli.StringSliceFlag{
		Name:    "set",
		Aliases: []string{"s"},
		Usage:   "Override an option as key=value (repeatable)",
	}

	overridesFlag = &cli.StringFlag{
		Name:  "overrides",
		Usage: "Path to a JSON or YAML file of option overrides",
	}

	strictFlag = &cli.BoolFlag{
		Name:  "strict",
		Usage: "Treat consistency findings as errors instead of warnings",
	}

	rootFlag = &cli.StringFlag{
		Name:  "root",
		Usage: "Prefix target paths with this directory (for staging)",
	}
)

// parseOutputFormat reads the format flag and rejects unknown formats.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	format := serializer.Format(cmd.String("format"))
	if format.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported: %s",
			format, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return format, nil
}

// loadOverrides merges the overrides file with --set pairs; --set wins.
func loadOverrides(cmd *cli.Command) (schema.Overrides, error) {
	overrides := schema.Overrides{}

	if path := cmd.String("overrides"); path != "" {
		fromFile, err := serializer.FromFile[map[string]any](path)
		if err != nil {
			return nil, fmt.Errorf("failed to load overrides from %q: %w", path, err)
		}
		for k, v := range *fromFile {
			overrides[k] = v
		}
	}

	fromFlags, err := parseSetValues(cmd.StringSlice("set"))
	if err != nil {
		return nil, err
	}
	for k, v := range fromFlags {
		overrides[k] = v
	}

	return overrides, nil
}

// parseSetValues parses repeated key=value pairs. Unlike override files,
// malformed pairs are rejected rather than skipped.
func parseSetValues(pairs []string) (schema.Overrides, error) {
	overrides := schema.Overrides{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set value %q, expected key=value", pair)
		}
		overrides[key] = strings.TrimSpace(value)
	}
	return overrides, nil
}

// resolveOverrides loads the requested schema version and resolves the
// command's overrides against it.
func resolveOverrides(cmd *cli.Command) (*schema.Resolution, error) {
	overrides, err := loadOverrides(cmd)
	if err != nil {
		return nil, err
	}

	registry, err := schema.NewRegistry()
	if err != nil {
		return nil, err
	}

	s, err := registry.Get(cmd.String("schema-version"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, "unknown schema version", err)
	}

	res, err := schema.Resolve(s, overrides)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "configuration is invalid", err)
	}
	return res, nil
}

// serializeResult writes doc per the command's output and format flags.
func serializeResult(ctx context.Context, cmd *cli.Command, doc any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()

	return ser.Serialize(ctx, doc)
}
