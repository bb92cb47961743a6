package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the sugared zap logger shared by the commands.
type Logger struct {
	*zap.SugaredLogger
}

// how an optional log file is opened between runs
type FileMode string

const (
	// FileModeAppend appends to an existing log file. This is the default.
	FileModeAppend FileMode = "append"
	// FileModeTruncate truncates an existing log file.
	FileModeTruncate FileMode = "truncate"
	// FileModeRotate hands the file to lumberjack for size based rotation.
	FileModeRotate FileMode = "rotate"
)

func (m *FileMode) Set(s string) error {
	switch FileMode(s) {
	case FileModeAppend, "":
		*m = FileModeAppend
	case FileModeTruncate:
		*m = FileModeTruncate
	case FileModeRotate:
		*m = FileModeRotate
	default:
		return fmt.Errorf("invalid log file mode: %s", s)
	}
	return nil
}

func (m FileMode) String() string {
	return string(m)
}

func (m FileMode) Type() string {
	return "mode"
}

// logger settings
type Config struct {
	Verbose bool     `yaml:"verbose"`
	Path    string   `yaml:"path"`
	Mode    FileMode `yaml:"mode,omitempty"`
}

// console logger on stderr, debug level when verbose
func NewLogger(verbose bool) *Logger {
	return &Logger{zap.New(consoleCore(verbose)).Sugar()}
}

// console logger plus an optional JSON file sink
func New(conf Config) (*Logger, error) {
	core := consoleCore(conf.Verbose)
	if conf.Path != "" {
		w, err := openFile(conf.Path, conf.Mode)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		level := zapcore.InfoLevel
		if conf.Verbose {
			level = zapcore.DebugLevel
		}
		core = zapcore.NewTee(core, zapcore.NewCore(jsonEncoder(), w, level))
	}
	return &Logger{zap.New(core).Sugar()}, nil
}

// logger that drops everything, used by tests and library callers
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

func (l *Logger) Close() error {
	// stderr cannot always be synced (ENOTTY / EINVAL); ignore that
	_ = l.Sync()
	return nil
}

func consoleCore(verbose bool) zapcore.Core {
	conf := zap.NewDevelopmentEncoderConfig()
	conf.EncodeLevel = zapcore.CapitalColorLevelEncoder
	conf.CallerKey = ""
	conf.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(conf),
		zapcore.Lock(os.Stderr),
		level,
	)
}

func jsonEncoder() zapcore.Encoder {
	conf := zap.NewProductionEncoderConfig()
	conf.CallerKey = ""
	conf.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(conf)
}

func openFile(path string, mode FileMode) (zapcore.WriteSyncer, error) {
	switch path {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	switch mode {
	case FileModeRotate:
		// lumberjack.Logger does its own locking
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}), nil
	case FileModeTruncate:
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
		if err != nil {
			return nil, err
		}
		return zapcore.Lock(f), nil
	default:
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return nil, err
		}
		return zapcore.Lock(f), nil
	}
}
