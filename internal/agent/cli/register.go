package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/utils"
)

// NewRegisterCmd создаёт CLI-команду для регистрации нового пользователя.
//
// Сервер сразу выдаёт access-токен, поэтому после регистрации
// пользователь уже залогинен.
//
// Пример использования:
//
//	authctl register --email test@example.com --full-name "Ann"
func NewRegisterCmd(app *App) *cobra.Command {
	var (
		email, password, fullName string
		fromStdin                 bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Long: `Регистрация нового пользователя на сервере.

Пример:
  authctl register --email test@example.com --full-name "Ann"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(cmd, password, fromStdin)
			if err != nil {
				return err
			}

			var name *string
			if cmd.Flags().Changed("full-name") {
				name = utils.StrPtr(fullName)
			}

			resp, err := app.Client().Register(email, pw, name)
			if err != nil {
				return err
			}

			if err := saveToken(app, email, resp); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "registration successful (token saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for registration")
	cmd.Flags().StringVar(&password, "password", "", "password for registration (prompted if omitted)")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from stdin")
	cmd.Flags().StringVar(&fullName, "full-name", "", "optional full name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
