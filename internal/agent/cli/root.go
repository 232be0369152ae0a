// Package cli реализует командный интерфейс (CLI) клиента authkeeper.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных учётных данных (access-токен) из конфигурационного файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/agent/config"
)

// DefaultServerURL — адрес сервера по умолчанию (можно переопределить AUTHCTL_SERVER).
const DefaultServerURL = "http://127.0.0.1:8008"

// App содержит состояние CLI-приложения, разделяемое между командами.
type App struct {
	// ServerURL — базовый URL сервера (например, "http://127.0.0.1:8008").
	ServerURL string
	// Insecure отключает проверку TLS-сертификата сервера (только для dev).
	Insecure bool

	// CredsPath — путь к файлу с сохранёнными учётными данными.
	CredsPath string
	// Creds — загруженные учётные данные из файла конфигурации.
	Creds *config.Credentials
}

// Client возвращает API-клиент с настройками приложения.
func (a *App) Client() *api.Client {
	var opts []api.Option
	if a.Insecure {
		opts = append(opts, api.WithInsecureTLS())
	}
	return NewAPIClient(a.ServerURL, opts...)
}

// Token возвращает сохранённый access-токен или ошибку, если нужно войти заново.
func (a *App) Token() (string, error) {
	if a.Creds.Expired(Now()) {
		return "", fmt.Errorf("not logged in or token expired, run: authctl login")
	}
	return a.Creds.AccessToken, nil
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
// В PersistentPreRunE определяется путь к файлу учётных данных и загружается токен.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	serverDefault := os.Getenv("AUTHCTL_SERVER")
	if serverDefault == "" {
		serverDefault = DefaultServerURL
	}

	cmd := &cobra.Command{
		Use:   "authctl",
		Short: "authctl — клиент сервиса аутентификации и профилей",
		Long: `authctl — клиент сервиса authkeeper.

Команды:
  register  Регистрация нового пользователя (сразу сохраняет токен)
  login     Логин (получить access токен)
  logout    Удалить сохранённый токен
  me        Показать профиль
  profile   Изменить профиль (--full-name или --clear)
  health    Проверить сервер
  version   Версия и дата сборки

Примеры:
  authctl register --email test@example.com --full-name "Ann"
  authctl login --email test@example.com
  echo "StrongPass123" | authctl login --email test@example.com --password-stdin
  authctl me
  authctl profile --full-name "Ann Smith"
  authctl profile --clear
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.CredsPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.CredsPath = p
			}

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", serverDefault, "server base URL")
	cmd.PersistentFlags().StringVar(&app.CredsPath, "creds", "", "credentials file (default ~/.authkeeper/credentials.json)")
	cmd.PersistentFlags().BoolVar(&app.Insecure, "insecure", false, "skip TLS certificate verification (dev only)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewLogoutCmd(app))
	cmd.AddCommand(NewMeCmd(app))
	cmd.AddCommand(NewProfileCmd(app))
	cmd.AddCommand(NewHealthCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1 (os.Exit(1)).
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
