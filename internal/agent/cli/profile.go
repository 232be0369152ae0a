package cli

import (
	"errors"

	"github.com/spf13/cobra"

	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// NewProfileCmd частично обновляет профиль.
//
// --full-name задаёт имя, --clear очищает его (отправляет null).
//
//	authctl profile --full-name "Ann Smith"
//	authctl profile --clear
func NewProfileCmd(app *App) *cobra.Command {
	var (
		fullName  string
		clearName bool
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Изменить профиль (--full-name или --clear)",
		RunE: func(cmd *cobra.Command, args []string) error {
			set := cmd.Flags().Changed("full-name")
			if set && clearName {
				return errors.New("--full-name and --clear are mutually exclusive")
			}
			if !set && !clearName {
				return errors.New("nothing to update: pass --full-name or --clear")
			}

			token, err := app.Token()
			if err != nil {
				return err
			}

			req := shared.UpdateProfileRequest{FullName: shared.OptionalString{Set: true}}
			if set {
				req.FullName.Value = &fullName
			}

			p, err := app.Client().UpdateProfile(token, req)
			if err != nil {
				return err
			}
			return printProfile(cmd, p)
		},
	}

	cmd.Flags().StringVar(&fullName, "full-name", "", "new full name (up to 200 characters)")
	cmd.Flags().BoolVar(&clearName, "clear", false, "clear full name")

	return cmd
}
