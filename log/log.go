package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	WarningLog *log.Logger
	InfoLog    *log.Logger
	ErrorLog   *log.Logger

	globalConfig *LogConfig

	// launchLoggers maps a launch ID to its dedicated loggers.
	launchLoggers map[string]*LaunchLoggers
)

// LogConfig holds logging configuration.
type LogConfig struct {
	LogsEnabled   bool
	LogsDir       string
	LogMaxSize    int // megabytes
	LogMaxFiles   int
	LogMaxAge     int // days
	LogCompress   bool
	UseLaunchLogs bool
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		LogsEnabled:   true,
		LogsDir:       "",
		LogMaxSize:    10,
		LogMaxFiles:   5,
		LogMaxAge:     30,
		LogCompress:   true,
		UseLaunchLogs: true,
	}
}

var logFileName = filepath.Join(os.TempDir(), "medviz.log")

// GetConfigDir returns the path to the application's configuration
// directory. MEDVIZ_HOME overrides the default of ~/.medviz.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("MEDVIZ_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".medviz"), nil
}

// GetLogDir returns the directory where logs should be stored.
func GetLogDir(cfg *LogConfig) (string, error) {
	if cfg != nil && !cfg.LogsEnabled {
		return os.TempDir(), nil
	}

	if cfg != nil && cfg.LogsDir != "" {
		return cfg.LogsDir, nil
	}

	configDir, err := GetConfigDir()
	if err != nil {
		return os.TempDir(), fmt.Errorf("failed to get config directory: %w", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return os.TempDir(), fmt.Errorf("failed to create log directory: %w", err)
	}

	return logDir, nil
}

// GetLogFilePath returns the full path to the log file.
func GetLogFilePath(cfg *LogConfig) (string, error) {
	logDir, err := GetLogDir(cfg)
	if err != nil {
		return logFileName, err
	}

	return filepath.Join(logDir, "medviz.log"), nil
}

// GetLaunchLogFilePath returns the full path to a launch-specific log file.
func GetLaunchLogFilePath(cfg *LogConfig, launchID string) (string, error) {
	logDir, err := GetLogDir(cfg)
	if err != nil {
		return "", err
	}

	// Sanitize launchID to be safe as a filename.
	safeID := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, launchID)

	return filepath.Join(logDir, fmt.Sprintf("launch_%s.log", safeID)), nil
}

// LaunchLoggers holds the loggers for a specific launch.
type LaunchLoggers struct {
	WarningLog *log.Logger
	InfoLog    *log.Logger
	ErrorLog   *log.Logger
	LogFile    io.Closer
}

// GetLaunchLoggers creates or retrieves loggers for a specific launch.
func GetLaunchLoggers(launchID string) (*LaunchLoggers, error) {
	if loggers, exists := launchLoggers[launchID]; exists {
		return loggers, nil
	}

	if globalConfig != nil && !globalConfig.UseLaunchLogs {
		return nil, nil
	}

	logFilePath, err := GetLaunchLogFilePath(globalConfig, launchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get launch log file path: %w", err)
	}

	writer := createRotatingWriter(logFilePath, globalConfig)

	loggers := &LaunchLoggers{
		InfoLog:    log.New(writer, fmt.Sprintf("[%s] INFO: ", launchID), log.Ldate|log.Ltime|log.Lshortfile),
		WarningLog: log.New(writer, fmt.Sprintf("[%s] WARNING: ", launchID), log.Ldate|log.Ltime|log.Lshortfile),
		ErrorLog:   log.New(writer, fmt.Sprintf("[%s] ERROR: ", launchID), log.Ldate|log.Ltime|log.Lshortfile),
	}

	if closer, ok := writer.(io.Closer); ok {
		loggers.LogFile = closer
	}

	launchLoggers[launchID] = loggers

	return loggers, nil
}

// LogForLaunch logs a message to the launch-specific log file, mirrored to
// the global log with the launch ID as prefix.
func LogForLaunch(launchID, level, format string, v ...interface{}) {
	logToGlobal := func() {
		switch level {
		case "info":
			InfoLog.Printf(fmt.Sprintf("[%s] %s", launchID, format), v...)
		case "warning":
			WarningLog.Printf(fmt.Sprintf("[%s] %s", launchID, format), v...)
		case "error":
			ErrorLog.Printf(fmt.Sprintf("[%s] %s", launchID, format), v...)
		}
	}

	if globalConfig == nil || !globalConfig.UseLaunchLogs {
		logToGlobal()
		return
	}

	loggers, err := GetLaunchLoggers(launchID)
	if err != nil || loggers == nil {
		if err != nil {
			ErrorLog.Printf("failed to get launch loggers for %s: %v", launchID, err)
		}
		logToGlobal()
		return
	}

	switch level {
	case "info":
		loggers.InfoLog.Printf(format, v...)
	case "warning":
		loggers.WarningLog.Printf(format, v...)
	case "error":
		loggers.ErrorLog.Printf(format, v...)
	}
	logToGlobal()
}

var globalLogFile io.WriteCloser

func init() {
	launchLoggers = make(map[string]*LaunchLoggers)

	// Default loggers so that log calls don't panic before Initialize
	// runs, e.g. in tests.
	if InfoLog == nil {
		InfoLog = log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime)
	}
	if WarningLog == nil {
		WarningLog = log.New(os.Stderr, "WARNING: ", log.Ldate|log.Ltime)
	}
	if ErrorLog == nil {
		ErrorLog = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
	}
}

// Initialize should be called once at the beginning of the program to set
// up logging. defer Close() after calling this function. Log output goes
// to a rotating file in the configured log directory
// (default: ~/.medviz/logs/).
func Initialize() {
	InitializeWithConfig(DefaultLogConfig())
}

// InitializeWithConfig sets up logging with the provided configuration.
func InitializeWithConfig(cfg *LogConfig) {
	if cfg == nil {
		cfg = DefaultLogConfig()
	}
	globalConfig = cfg

	logFilePath, err := GetLogFilePath(cfg)
	if err != nil {
		fmt.Printf("Warning: Using default log file location due to error: %v\n", err)
		logFilePath = logFileName
	}

	writer := createRotatingWriter(logFilePath, cfg)

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	InfoLog = log.New(writer, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarningLog = log.New(writer, "WARNING: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLog = log.New(writer, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	if closer, ok := writer.(io.WriteCloser); ok {
		globalLogFile = closer
	}

	logFileName = logFilePath
}

// createRotatingWriter creates a writer that handles log rotation based on config.
func createRotatingWriter(logFilePath string, cfg *LogConfig) io.Writer {
	if cfg == nil || cfg.LogMaxSize <= 0 {
		logDir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			panic(fmt.Sprintf("could not create log directory: %s", err))
		}

		// No rotation, use a plain file.
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			panic(fmt.Sprintf("could not open log file: %s", err))
		}
		return f
	}

	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxFiles,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
		LocalTime:  true,
	}
}

func Close() {
	if globalLogFile != nil {
		_ = globalLogFile.Close()
	}

	for _, loggers := range launchLoggers {
		if loggers.LogFile != nil {
			_ = loggers.LogFile.Close()
		}
	}

	fmt.Println("wrote logs to " + logFileName)
}

// Every is used to log at most once every timeout duration.
type Every struct {
	timeout time.Duration
	timer   *time.Timer
}

func NewEvery(timeout time.Duration) *Every {
	return &Every{timeout: timeout}
}

// ShouldLog returns true if the timeout has passed since the last log.
func (e *Every) ShouldLog() bool {
	if e.timer == nil {
		e.timer = time.NewTimer(e.timeout)
		e.timer.Reset(e.timeout)
		return true
	}

	select {
	case <-e.timer.C:
		e.timer.Reset(e.timeout)
		return true
	default:
		return false
	}
}
