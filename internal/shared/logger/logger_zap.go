// Package logger содержит общий логгер для server и agent.
//
// Пакет предоставляет Zap-логгер, настроенный на запись в файл с ротацией
// (lumberjack) и, при необходимости, в stdout, а также удобный метод
// для логирования HTTP-запросов.
package logger

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFile — файл логов по умолчанию.
var DefaultFile = filepath.Join("runtime", "logs", "http.log")

// HTTPLogger представляет обёртку над zap.Logger для логирования HTTP-событий.
//
// Встраивание *zap.Logger позволяет использовать все методы zap напрямую.
type HTTPLogger struct {
	*zap.Logger
}

// Options — параметры создания логгера.
type Options struct {
	Level  string // debug|info|warn|error
	Format string // json|console
	File   string // пустая строка — без файла
	Stdout bool   // дублировать в stdout
}

// NewHTTPLogger создаёт файловый zap-логгер для HTTP-логов.
//
// Логи записываются в файл runtime/logs/http.log.
// Для файлов включена ротация (MaxSize/MaxBackups/MaxAge) и сжатие архивов.
// Формат времени: "HH:MM:SS DD.MM.YYYY".
func NewHTTPLogger() *HTTPLogger {
	return New(Options{Level: "info", Format: "console", File: DefaultFile})
}

// New создаёт логгер по параметрам из конфига.
//
// Неизвестный уровень трактуется как info, неизвестный формат — как console.
// Если не задан ни файл, ни stdout, возвращается логгер без вывода.
func New(opts Options) *HTTPLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = customTimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(opts.Format, "json") {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	level := parseLevel(opts.Level)

	var cores []zapcore.Core
	if opts.File != "" {
		_ = os.MkdirAll(filepath.Dir(opts.File), 0755)
		// lumberjack отвечает за ротацию файлов
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // MB
			MaxBackups: 10,  // сколько старых файлов хранить
			MaxAge:     30,  // дней
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(encoder, writer, level))
	}
	if opts.Stdout {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	}
	if len(cores) == 0 {
		return &HTTPLogger{Logger: zap.NewNop()}
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	return &HTTPLogger{Logger: logger}
}

// LogRequest записывает структурированный лог об HTTP-запросе.
//
// method и uri — параметры запроса,
// status — HTTP-статус ответа,
// responseSize — размер ответа в байтах,
// duration — длительность обработки запроса в миллисекундах.
func (logger *HTTPLogger) LogRequest(method, uri string, status, responseSize int, duration float64) {
	logger.Info("HTTP request",
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", status),
		zap.Int("response_size", responseSize),
		zap.Float64("duration_ms", duration),
	)
}

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// customTimeEncoder форматирует время для логов в виде "HH:MM:SS DD.MM.YYYY".
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05 02.01.2006"))
}
