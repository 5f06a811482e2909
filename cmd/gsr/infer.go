package main

import (
	"github.com/spf13/cobra"

	"gsr-report/internal/infer"
	"gsr-report/internal/mapping"
)

func newInferCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "infer",
		Short: "Print the mapping inferred from the current schema without storing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}

			m, err := infer.Infer(cat)
			if err != nil {
				return err
			}

			data, err := mapping.Marshal(m)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}
}
