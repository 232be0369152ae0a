package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHealthCmd проверяет доступность сервера; --ready проверяет и базу.
func NewHealthCmd(app *App) *cobra.Command {
	var ready bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Проверить сервер",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Client().Health(ready)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&ready, "ready", false, "check readiness (database) instead of liveness")
	return cmd
}
