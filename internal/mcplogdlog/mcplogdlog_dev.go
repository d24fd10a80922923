//go:build dev

package mcplogdlog

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"
)

const defaultSocket = "/tmp/mcplogd.sock"
const socketEnv = "MODGUARD_LOG_SOCKET"
const appName = "modguard"

const (
	levelInfo  = "info"
	levelDebug = "debug"
	levelWarn  = "warn"
	levelError = "error"
)

// entry is one JSON line on the socket.
type entry struct {
	App       string         `json:"app"`
	PID       int            `json:"pid"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func Info(message string, metadata map[string]any) {
	log(levelInfo, message, metadata)
}

func Debug(message string, metadata map[string]any) {
	log(levelDebug, message, metadata)
}

func Warn(message string, metadata map[string]any) {
	log(levelWarn, message, metadata)
}

func Error(message string, metadata map[string]any) {
	log(levelError, message, metadata)
}

// socketPath lets tests and parallel runs use their own collector.
func socketPath() string {
	if path := os.Getenv(socketEnv); path != "" {
		return path
	}
	return defaultSocket
}

func log(level, message string, metadata map[string]any) {
	conn, err := net.DialTimeout("unix", socketPath(), 100*time.Millisecond)
	if err != nil {
		return
	}
	defer conn.Close()

	e := entry{
		App:       appName,
		PID:       os.Getpid(),
		Level:     level,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Metadata:  metadata,
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	fmt.Fprintf(conn, "%s\n", data)
}
