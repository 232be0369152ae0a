package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/agent/config"
	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// NewLoginCmd создаёт CLI-команду для входа пользователя в систему.
//
// Команда получает access-токен и сохраняет его вместе со сроком действия
// в локальный конфигурационный файл. Пароль берётся из --password,
// из stdin (--password-stdin) или запрашивается интерактивно.
//
// Пример использования:
//
//	authctl login --email test@example.com
func NewLoginCmd(app *App) *cobra.Command {
	var (
		email, password string
		fromStdin       bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Логин пользователя (получить access токен)",
		Long: `Логин пользователя.

Пример:
  authctl login --email test@example.com
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(cmd, password, fromStdin)
			if err != nil {
				return err
			}

			resp, err := app.Client().Login(email, pw)
			if err != nil {
				return err
			}

			if err := saveToken(app, email, resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "login ok (token saved, expires %s)\n", app.Creds.ExpiresAt.Local().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for login")
	cmd.Flags().StringVar(&password, "password", "", "password for login (prompted if omitted)")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// saveToken сохраняет токен и вычисленный срок действия в файл учётных данных.
func saveToken(app *App, email string, resp shared.TokenResponse) error {
	app.Creds = &config.Credentials{
		Email:       email,
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		ExpiresAt:   Now().Add(time.Duration(resp.ExpiresIn) * time.Second).UTC(),
	}
	return config.Save(app.CredsPath, app.Creds)
}
