// Package config отвечает за:
// - чтение server.yaml (если файл есть)
// - подстановку переменных окружения вида ${JWT_SECRET}
// - переопределение настроек переменными окружения (DATABASE_URL, JWT_SECRET, ...)
// - проставление дефолтов
// - валидацию (чтобы сервер не стартовал с дырявыми настройками)
//
// Конфиг собирается один раз при старте и дальше передаётся
// компонентам явно, глобального состояния пакет не держит.
package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config — корневая структура всего конфига сервера.
type Config struct {
	Env        string           `yaml:"env" env:"APP_ENV"` // local|dev|stage|prod
	Server     ServerConfig     `yaml:"server"`
	TLS        TLSConfig        `yaml:"tls"`
	DB         DBConfig         `yaml:"db"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Auth       AuthConfig       `yaml:"auth"`
	Password   PasswordConfig   `yaml:"password"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig — настройки HTTP-сервера.
type ServerConfig struct {
	Host              string        `yaml:"host" env:"SERVER_HOST"`
	Port              int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"` // время на graceful shutdown
	MaxHeaderBytes    int           `yaml:"max_header_bytes"` // лимит размера заголовков
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`   // лимит размера тела запроса
}

// TLSConfig — настройки HTTPS.
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled" env:"TLS_ENABLED"`
	CertFile   string `yaml:"cert_file" env:"TLS_CERT_FILE"`
	KeyFile    string `yaml:"key_file" env:"TLS_KEY_FILE"`
	MinVersion string `yaml:"min_version"` // "1.2"|"1.3" (1.0/1.1 запрещаем т.к. устарели)
}

// DBConfig — настройки подключения к базе данных.
type DBConfig struct {
	DSN             string        `yaml:"dsn" env:"DATABASE_URL"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	PingTimeout     time.Duration `yaml:"ping_timeout"`
}

// MigrationsConfig — настройки миграций БД.
// По умолчанию миграции применяются при старте.
type MigrationsConfig struct {
	Skip bool `yaml:"skip" env:"MIGRATIONS_SKIP"`
}

// AuthConfig — настройки аутентификации.
type AuthConfig struct {
	// AccessTokenExpireMinutes — срок жизни access-токена в минутах.
	AccessTokenExpireMinutes int       `yaml:"access_token_expire_minutes" env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	JWT                      JWTConfig `yaml:"jwt"`
}

// DefaultAccessTokenExpireMinutes — срок жизни токена, если ни yaml, ни окружение его не задали.
// Явный 0 дефолтом не заменяется и не проходит Validate.
const DefaultAccessTokenExpireMinutes = 30

// AccessTTL возвращает срок жизни access-токена.
func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes) * time.Minute
}

// JWTConfig — как подписываем JWT.
type JWTConfig struct {
	Algorithm string `yaml:"algorithm" env:"JWT_ALGORITHM"` // HS256|HS384|HS512
	Secret    string `yaml:"secret" env:"JWT_SECRET"`       // может содержать ${JWT_SECRET}
}

// PasswordConfig — настройки хэширования паролей пользователей.
type PasswordConfig struct {
	Hasher string       `yaml:"hasher" env:"PASSWORD_HASHER"` // bcrypt|argon2id
	Argon2 Argon2Config `yaml:"argon2"`
	Bcrypt BcryptConfig `yaml:"bcrypt"`
}

// Argon2Config — параметры argon2id.
type Argon2Config struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
	KeyLen    uint32 `yaml:"key_len"`
	SaltLen   uint32 `yaml:"salt_len"`
}

// BcryptConfig — параметры bcrypt.
type BcryptConfig struct {
	Cost int `yaml:"cost" env:"BCRYPT_COST"`
}

// LogConfig — настройки логирования (zap).
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // debug|info|warn|error
	Format string `yaml:"format" env:"LOG_FORMAT"` // json|console
	File   string `yaml:"file" env:"LOG_FILE"`     // файл с ротацией, пусто — только stdout
	Stdout bool   `yaml:"stdout" env:"LOG_STDOUT"`
}

// Load читает YAML (если файл существует), подставляет переменные окружения вида ${VAR},
// применяет переопределения из окружения, проставляет дефолты и валидирует.
//
// Отсутствие файла не ошибка: сервис можно сконфигурировать только окружением.
func Load(path string) (*Config, error) {
	// дефолт срока жизни проставляем до yaml и env, чтобы отличить «не задано» от явного 0
	cfg := Config{Auth: AuthConfig{AccessTokenExpireMinutes: DefaultAccessTokenExpireMinutes}}

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			// signing secret: "${JWT_SECRET}" -> secret: "реальное_значение"
			expanded := ExpandEnvStrict(string(raw))
			if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
				return nil, fmt.Errorf("не удалось распарсить yaml: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("не удалось прочитать конфиг: %w", err)
		}
	}

	if err := ApplyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envPlaceholder = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

// ExpandEnvStrict заменяет ${VAR} на значение из окружения.
// Если переменная не задана — оставляем ${VAR} как есть,
// а потом Validate() упадёт с понятной ошибкой.
func ExpandEnvStrict(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(m string) string {
		sub := envPlaceholder.FindStringSubmatch(m)
		if len(sub) != 2 {
			return m
		}
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		return m
	})
}

// ApplyEnvOverrides переопределяет поля с тегом env значениями из окружения.
// Пустые и незаданные переменные не трогают то, что пришло из yaml.
func ApplyEnvOverrides(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyDefaults — дефолтные значения, если поле не задано.
func ApplyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "local"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8008
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.DB.PingTimeout == 0 {
		cfg.DB.PingTimeout = 5 * time.Second
	}
	if cfg.Auth.JWT.Algorithm == "" {
		cfg.Auth.JWT.Algorithm = "HS256"
	}
	if cfg.Password.Hasher == "" {
		cfg.Password.Hasher = "bcrypt"
	}
	if cfg.Password.Bcrypt.Cost == 0 {
		cfg.Password.Bcrypt.Cost = 12
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.TLS.Enabled && cfg.TLS.MinVersion == "" {
		cfg.TLS.MinVersion = "1.2"
	}
}

// Validate проверяет, что конфиг заполнен корректно и безопасно.
// Если что-то не так — возвращаем ошибку и сервер НЕ стартует.
func (c *Config) Validate() error {
	// Базовая проверка сервера
	if c.Server.Host == "" {
		return errors.New("server.host обязателен")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port некорректен: %d", c.Server.Port)
	}

	// TLS/HTTPS
	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return errors.New("tls.cert_file и tls.key_file обязательны при tls.enabled=true")
		}
		// TLS 1.0/1.1 считаются небезопасными — запрещаем
		if c.TLS.MinVersion != "1.2" && c.TLS.MinVersion != "1.3" {
			return fmt.Errorf("tls.min_version=%s не поддерживается; используй 1.2 или 1.3", c.TLS.MinVersion)
		}
	}

	// База данных
	if strings.TrimSpace(c.DB.DSN) == "" {
		return errors.New("db.dsn обязателен (DATABASE_URL)")
	}

	// JWT
	switch strings.ToUpper(strings.TrimSpace(c.Auth.JWT.Algorithm)) {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("auth.jwt.algorithm должен быть HS256|HS384|HS512 (сейчас %q)", c.Auth.JWT.Algorithm)
	}

	key := strings.TrimSpace(c.Auth.JWT.Secret)
	if key == "" {
		return errors.New("auth.jwt.secret обязателен (JWT_SECRET)")
	}
	// Если ${JWT_SECRET} не подставился — значит переменная окружения не задана
	if strings.Contains(key, "${") && strings.Contains(key, "}") {
		return fmt.Errorf("auth.jwt.secret содержит неподставленную переменную: %q (нужно задать JWT_SECRET)", key)
	}
	// Для HS* ключ должен быть длинным и случайным
	if len(key) < 32 {
		return fmt.Errorf("auth.jwt.secret слишком короткий (%d символов); нужно >= 32", len(key))
	}

	if c.Auth.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("auth.access_token_expire_minutes должен быть > 0 (сейчас %d)", c.Auth.AccessTokenExpireMinutes)
	}

	// Хэширование паролей
	switch strings.ToLower(c.Password.Hasher) {
	case "argon2id":
		a := c.Password.Argon2
		if a.Time == 0 || a.MemoryKiB == 0 || a.Threads == 0 || a.KeyLen == 0 || a.SaltLen == 0 {
			return errors.New("password.argon2 должен быть настроен для argon2id")
		}
	case "bcrypt":
		if c.Password.Bcrypt.Cost < 4 || c.Password.Bcrypt.Cost > 31 {
			return fmt.Errorf("password.bcrypt.cost должен быть в диапазоне 4..31 (сейчас %d)", c.Password.Bcrypt.Cost)
		}
	default:
		return fmt.Errorf("password.hasher должен быть bcrypt|argon2id (сейчас %q)", c.Password.Hasher)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format должен быть json|console (сейчас %q)", c.Log.Format)
	}

	return nil
}

// Addr возвращает адрес для net.Listen.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// TLSVersion переводит tls.min_version в константу crypto/tls.
func (t TLSConfig) TLSVersion() uint16 {
	if t.MinVersion == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
