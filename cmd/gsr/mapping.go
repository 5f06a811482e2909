package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"gsr-report/internal/mapping"
)

func newMappingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Inspect and maintain the stored mapping",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current mapping, inferring and storing it if needed",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := a.store().Load(cmd.Context())
				if err != nil {
					return err
				}

				return printMapping(cmd, m)
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Re-infer the mapping from the current schema and store it",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := a.store().Reset(cmd.Context())
				if err != nil {
					return err
				}

				return printMapping(cmd, m)
			},
		},
		&cobra.Command{
			Use:   "save <file>",
			Short: "Store a hand-edited mapping",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := mapping.LoadFile(args[0])
				if err != nil {
					return err
				}

				saved, err := a.store().Save(cmd.Context(), m)
				if err != nil {
					return err
				}

				return printMapping(cmd, saved)
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check the stored mapping against the current schema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.validateMapping(cmd)
			},
		},
		&cobra.Command{
			Use:   "options",
			Short: "List the models and fields a mapping may reference",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cat, err := a.catalog(cmd.Context())
				if err != nil {
					return err
				}

				return writeJSON(cmd.OutOrStdout(), mapping.BuildOptions(cat))
			},
		},
	)

	return cmd
}

func (a *app) validateMapping(cmd *cobra.Command) error {
	m, err := mapping.LoadFile(a.cfg.MappingPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("no mapping stored at %s; run `gsr mapping show` to infer one", a.cfg.MappingPath)
	}

	if err != nil {
		return err
	}

	cat, err := a.catalog(cmd.Context())
	if err != nil {
		return err
	}

	res := mapping.Validate(m, cat)
	out := cmd.OutOrStdout()

	for _, d := range res.All() {
		fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
	}

	if !res.IsValid() {
		return fmt.Errorf("mapping at %s is stale: %d error(s)", a.cfg.MappingPath, len(res.Errors))
	}

	fmt.Fprintf(out, "mapping at %s is valid\n", a.cfg.MappingPath)

	return nil
}

func printMapping(cmd *cobra.Command, m *mapping.Mapping) error {
	data, err := mapping.Marshal(m)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}
