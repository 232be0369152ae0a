// @title           AuthKeeper API
// @version         1.0
// @description     Authentication and user profile service.
// @description     Register, log in with email and password, read and update your own profile.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8008
// @BasePath  /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа серверного приложения authkeeper.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации (./configs/server.yaml или CONFIG_PATH) с переопределением из окружения;
//   - инициализацию подключения к базе данных и применение миграций;
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - запуск сервера (HTTPS, если включён TLS) с заданными таймаутами;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/api"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-authkeeper/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/repository"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/service"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-authkeeper/swagger/docs"
)

const defaultConfigPath = "./configs/server.yaml"

func main() {
	// до загрузки конфига пишем в stdout
	boot := logger.New(logger.Options{Level: "info", Format: "console", Stdout: true}).Sugar()

	if err := godotenv.Load(); err != nil {
		boot.Warnf("no .env file loaded, error: %v", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		boot.Fatal(err)
	}

	httpLogger := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Stdout: cfg.Log.Stdout,
	})
	defer httpLogger.Sync()
	log := httpLogger.Logger
	sugar := log.Sugar()

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// подключаем базу данных
	db, err := config.OpenDB(ctx, cfg, log)
	if err != nil {
		sugar.Fatal(err)
	}
	// делаем отложенное закрытие бд
	defer db.Close()

	hasher, err := crypto.NewPasswordHasher(cfg.Password.Hasher, cfg.Password.Bcrypt.Cost, crypto.Argon2Params{
		Time:      cfg.Password.Argon2.Time,
		MemoryKiB: cfg.Password.Argon2.MemoryKiB,
		Threads:   cfg.Password.Argon2.Threads,
		KeyLen:    cfg.Password.Argon2.KeyLen,
		SaltLen:   cfg.Password.Argon2.SaltLen,
	})
	if err != nil {
		sugar.Fatal(err)
	}

	codec, err := crypto.NewTokenCodec(crypto.JWTConfig{
		SigningKey: cfg.Auth.JWT.Secret,
		Algorithm:  cfg.Auth.JWT.Algorithm,
		AccessTTL:  cfg.Auth.AccessTTL(),
	})
	if err != nil {
		sugar.Fatal(err)
	}

	// создаём репы
	usersRepo := repository.NewUsersRepository(db)
	repos := service.Repositories{
		Users:  usersRepo,
		Health: usersRepo,
	}
	// создаём сервисы
	svc := service.NewServices(repos, repository.NewTxManager(db), hasher, codec, log)
	guard := middleware.NewBearerGuard(codec, svc.Users, log)
	// создаём хандлер и роутер
	handler := api.NewHandler(svc, httpLogger, cfg.Server.MaxBodyBytes)
	router := h.NewRouter(handler, guard, httpLogger)

	addr := cfg.Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: cfg.TLS.TLSVersion()}
	}

	g, gctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		var err error
		if cfg.TLS.Enabled {
			sugar.Infof("server started on https://%s (env=%s)", addr, cfg.Env)
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			sugar.Infof("server started on http://%s (env=%s)", addr, cfg.Env)
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-gctx.Done()

		sugar.Info("shutdown signal received")

		// родительский контекст уже отменён, поэтому таймаут считаем от Background
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единая обработка ошибок
	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	sugar.Info("server gracefully stopped")
}
