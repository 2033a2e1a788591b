package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Logger for debug messages
var (
	isVerbose = false
	logFile   *os.File
	logger    = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Log writes a printf-style debug line to the log file if verbose mode is enabled
func Log(text string, args ...interface{}) {
	if isVerbose {
		logger.Debug(fmt.Sprintf(text, args...))
	}
}

// Logger returns the structured logger behind Log. It discards everything
// until InitLogger enables verbose mode.
func Logger() *slog.Logger {
	return logger
}

// InitLogger initializes the logging system
func InitLogger(verbose bool) {
	isVerbose = verbose

	if verbose {
		// Create log filename with current date
		now := time.Now()
		logFileName := filepath.Join(os.TempDir(), fmt.Sprintf("hexatodo_%s.log", now.Format("2006-01-02")))

		var err error
		logFile, err = os.OpenFile(logFileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Printf("Error creating log file: %v\n", err)
			isVerbose = false
			return
		}
		SetOutput(logFile)

		Log("Verbose logging enabled")
	}
}

// SetOutput points the logger at w, for instance stderr when serving
func SetOutput(w io.Writer) {
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	isVerbose = true
}

// CloseLogger closes the log file if it's open
func CloseLogger() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
