/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sysconf-dev/sysconf/pkg/schema"
)

// SchemaOptions lists the options one schema version accepts.
type SchemaOptions struct {
	SchemaVersion string              `json:"schemaVersion" yaml:"schemaVersion"`
	Options       []schema.OptionSpec `json:"options" yaml:"options"`
}

func optionsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "options",
		EnableShellCompletion: true,
		Usage:                 "List the options an option schema accepts",
		Description: `List every option a schema version accepts, with its type, default, and
description. Use --all to list every known schema version.

# Examples

List the default schema's options as a table:
  sysconfctl options -f table

List schema v1:
  sysconfctl options --schema-version v1

List every schema version:
  sysconfctl options --all`,
		Flags: []cli.Flag{
			schemaVersionFlag,
			&cli.BoolFlag{
				Name:  "all",
				Usage: "List options for every known schema version",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			registry, err := schema.NewRegistry()
			if err != nil {
				return err
			}

			if cmd.Bool("all") {
				var docs []SchemaOptions
				for _, v := range registry.Versions() {
					s, err := registry.Get(v)
					if err != nil {
						return err
					}
					docs = append(docs, SchemaOptions{
						SchemaVersion: s.Version(),
						Options:       s.Options(),
					})
				}
				return serializeResult(ctx, cmd, docs)
			}

			s, err := registry.Get(cmd.String("schema-version"))
			if err != nil {
				return fmt.Errorf("unknown schema version: %w", err)
			}

			return serializeResult(ctx, cmd, SchemaOptions{
				SchemaVersion: s.Version(),
				Options:       s.Options(),
			})
		},
	}
}
