// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ------------------- global loggers -------------------

// four logger levels accessible throughout the application
var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

// ------------------- logger initialization -------------------

// InitLogger creates or reinitializes the logging system. It:
// - Ensures the log directory (LOG_DIR, default `./logs`) exists.
// - Creates a timestamped log file in it.
// - Writes logs to both the file and stdout.
// If the directory cannot be used the loggers fall back to stdout only.
func InitLogger() error {
	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = "./logs"
	}

	out, err := openLogOutput(dir)
	if err != nil {
		configure(os.Stdout)
		return err
	}
	configure(out)
	return nil
}

// openLogOutput ensures dir exists and returns a writer to stdout and a fresh log file.
func openLogOutput(dir string) (io.Writer, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	logFileName := filepath.Join(dir, time.Now().Format("2006-01-02_15-04-05")+".log")
	file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec
	if err != nil {
		return nil, err
	}
	return io.MultiWriter(os.Stdout, file), nil
}

func configure(w io.Writer) {
	Info = log.New(w, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	Warn = log.New(w, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(w, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	Debug = log.New(w, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// SetLogLevel adjusts the Debug logger's output depending on environment.
// Production discards debug output entirely.
func SetLogLevel(env string) {
	if env == "production" {
		Debug.SetOutput(io.Discard)
	}
}

// init runs at package load so every package can log without explicit setup.
// A failure to open the log file is reported on stdout and logging continues there.
func init() {
	if err := InitLogger(); err != nil {
		log.Printf("Failed to open log file, logging to stdout only: %v", err)
	}
}
