/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/sysconf-dev/sysconf/pkg/errors"
	"github.com/sysconf-dev/sysconf/pkg/header"
	"github.com/sysconf-dev/sysconf/pkg/schema"
)

// Validation status values reported by the validate command.
const (
	ValidationStatusValid   = "valid"
	ValidationStatusWarning = "warning"
)

// ValidationResult is the document emitted by the validate command.
type ValidationResult struct {
	Header header.Header `json:"header" yaml:"header"`

	// SchemaVersion is the schema the overrides resolved against.
	SchemaVersion string `json:"schemaVersion" yaml:"schemaVersion"`

	// Status is valid when no consistency findings were raised.
	Status string `json:"status" yaml:"status"`

	// Values holds the fully resolved configuration.
	Values map[string]any `json:"values" yaml:"values"`

	// Findings lists consistency problems, empty for a clean configuration.
	Findings []string `json:"findings,omitempty" yaml:"findings,omitempty"`
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Validate configuration overrides against an option schema",
		Description: `Resolve configuration overrides against a versioned option schema and
check the result for cross-option consistency.

Resolution rejects unknown option names and values that cannot be coerced
to the declared option type. Options without an override take their schema
default. A successfully resolved configuration is then checked for
cross-option consistency: an unrecognized reservation mode, a CPU
reservation without a cpu-range, an unrecognized raid-autodetection mode,
or an unrecognized governor.

Consistency findings are warnings by default; the command still exits
zero. Use --strict to fail on findings, which is what configuration
pipelines should do.

# Examples

Validate inline overrides:
  sysconfctl validate --set reservation=isolcpus --set cpu-range=0-3

Validate an overrides file against schema v1:
  sysconfctl validate --overrides overrides.yaml --schema-version v1

Fail on consistency findings (useful for CI/CD):
  sysconfctl validate --overrides overrides.yaml --strict

Write the result to a file as JSON:
  sysconfctl validate --set governor=performance -f json -o result.json`,
		Flags: []cli.Flag{
			setFlag,
			overridesFlag,
			schemaVersionFlag,
			strictFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := resolveOverrides(cmd)
			if err != nil {
				return err
			}

			findings := schema.CheckConsistency(res)

			result := &ValidationResult{
				SchemaVersion: res.SchemaVersion,
				Status:        ValidationStatusValid,
				Values:        res.Values,
			}
			for _, f := range findings {
				result.Findings = append(result.Findings, f.String())
			}
			if len(findings) > 0 {
				result.Status = ValidationStatusWarning
			}
			result.Header.Init(header.KindValidationResult, schema.APIVersion, version)

			if err := serializeResult(ctx, cmd, result); err != nil {
				return fmt.Errorf("failed to serialize validation result: %w", err)
			}

			slog.Info("validation completed",
				"schema", result.SchemaVersion,
				"status", result.Status,
				"findings", len(findings))

			if cmd.Bool("strict") {
				if err := schema.Strict(findings); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidConfig, "strict validation failed", err)
				}
			}
			return nil
		},
	}
}
