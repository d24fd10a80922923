//go:build !dev

// Release builds carry no log sink; every entry is dropped.
package mcplogdlog

func Info(string, map[string]any)  {}
func Debug(string, map[string]any) {}
func Warn(string, map[string]any)  {}
func Error(string, map[string]any) {}
