package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SessionLogger manages the log file for a single pipeline invocation.
// One session equals one natural-language request processed end to end.
type SessionLogger struct {
	sessionID string
	logFile   *os.File
	mutex     sync.Mutex
	startTime time.Time
}

var (
	currentLogger *SessionLogger
	loggerMutex   sync.Mutex
)

// StartSessionLogging initializes logging for a new invocation. The previous
// session logger, if any, is closed first.
func StartSessionLogging(sessionID string) (*SessionLogger, error) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if currentLogger != nil {
		currentLogger.Close()
	}

	timestamp := time.Now().Format("20060102_150405")
	logPath := filepath.Join("pilot_logs", fmt.Sprintf("session_%s_%s.log", sessionID, timestamp))

	if err := os.MkdirAll("pilot_logs", 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &SessionLogger{
		sessionID: sessionID,
		logFile:   logFile,
		startTime: time.Now(),
	}
	currentLogger = logger

	logger.writeLine("=== issuepilot session %s started at %s ===",
		sessionID, logger.startTime.Format(time.RFC3339))

	return logger, nil
}

// GetCurrentLogger returns the active session logger, or nil when no session
// is running. All methods are nil-safe.
func GetCurrentLogger() *SessionLogger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	return currentLogger
}

// Log writes a timestamped message to the session log.
func (s *SessionLogger) Log(format string, args ...interface{}) {
	if s == nil {
		return
	}
	s.writeLine(format, args...)
}

// LogError writes an error-level message to the session log.
func (s *SessionLogger) LogError(format string, args ...interface{}) {
	if s == nil {
		return
	}
	s.writeLine("ERROR: "+format, args...)
}

func (s *SessionLogger) writeLine(format string, args ...interface{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.logFile == nil {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	elapsed := time.Since(s.startTime).Round(time.Millisecond)
	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(s.logFile, "[%s +%v] %s\n", timestamp, elapsed, message)
}

// Close writes the session footer and closes the log file.
func (s *SessionLogger) Close() {
	if s == nil {
		return
	}

	s.writeLine("=== session %s finished after %v ===",
		s.sessionID, time.Since(s.startTime).Round(time.Millisecond))

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.logFile != nil {
		s.logFile.Close()
		s.logFile = nil
	}
}
