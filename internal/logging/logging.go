package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 14
	timeFormat        = "2006-01-02 15:04:05"
)

var (
	mu      sync.Mutex
	logFile *lumberjack.Logger
)

// Apply sets the global log level and output writers. Console output goes
// to stderr so query results on stdout stay clean. When logFilePath is set,
// a rotating file receives the same records. The file opened by an earlier
// Apply is closed.
func Apply(level, logFilePath string) {
	mu.Lock()
	defer mu.Unlock()

	zerolog.SetGlobalLevel(ParseLevel(level))
	out, file := writer(os.Stderr, logFilePath)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	if logFile != nil {
		logFile.Close()
	}
	logFile = file
}

// Close closes the log file opened by Apply, if any. Console logging
// keeps working.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}).With().Timestamp().Logger()
	return err
}

// ParseLevel maps a level name to a zerolog level. Unknown names give info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LevelForVerbosity converts a -v count into a level name.
func LevelForVerbosity(v int, fallback string) string {
	switch {
	case v >= 2:
		return "trace"
	case v == 1:
		return "debug"
	default:
		return fallback
	}
}

// writer builds the console writer and, when logFilePath is set, tees it
// into a rotating file. The file is returned so it can be closed.
func writer(console io.Writer, logFilePath string) (io.Writer, *lumberjack.Logger) {
	consoleOutput := zerolog.ConsoleWriter{Out: console, TimeFormat: timeFormat}
	if logFilePath == "" {
		return consoleOutput, nil
	}

	if err := ensureLogDir(logFilePath); err != nil {
		log.Error().Err(err).Str("path", logFilePath).Msg("Failed to prepare log directory; logging to console only")
		return consoleOutput, nil
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
		Compress:   true,
	}
	fileConsole := zerolog.ConsoleWriter{
		Out:        fileWriter,
		TimeFormat: timeFormat,
		NoColor:    true,
	}
	return zerolog.MultiLevelWriter(consoleOutput, fileConsole), fileWriter
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
