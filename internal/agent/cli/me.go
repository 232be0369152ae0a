package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// NewMeCmd выводит профиль текущего пользователя в JSON.
//
//	authctl me
func NewMeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Показать профиль текущего пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Token()
			if err != nil {
				return err
			}
			p, err := app.Client().Me(token)
			if err != nil {
				return err
			}
			return printProfile(cmd, p)
		},
	}
}

func printProfile(cmd *cobra.Command, p shared.UserProfile) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
