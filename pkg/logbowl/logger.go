package logbowl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Environment variable names
const (
	LogLevelEnvVar  = "GENEZIO_LOG_LEVEL"
	LogFormatEnvVar = "GENEZIO_LOG_CONSOLE_FORMATTER"
)

// Log formats
const (
	FormatEmoji = "emoji"
	FormatText  = "text"
	FormatJSON  = "json"
)

var domains = map[string]string{"system": "⚙️", "config": "🔩", "file": "📄", "env": "🌿", "metadata": "🗂️", "doctor": "🩺", "toolchain": "🧰", "builder": "🛠️", "artifact": "🎯", "launcher": "🚀", "manifest": "📜", "archive": "📦", "deploy": "☁️", "inspect": "🔍", "test": "🧪", "default": "❓"}
var actions = map[string]string{"init": "🌱", "start": "🚀", "stop": "🛑", "read": "📖", "write": "📝", "copy": "📋", "parse": "🧩", "resolve": "🧭", "probe": "🔦", "validate": "🛡️", "execute": "▶️", "build": "🏗️", "clean": "🧹", "locate": "🔎", "embed": "🧬", "pack": "📦", "deploy": "🚢", "verify": "🔍", "version": "🏷️", "finish": "🏁", "default": "⚙️"}
var statuses = map[string]string{"success": "✅", "failure": "❌", "error": "🔥", "warning": "⚠️", "info": "ℹ️", "debug": "🐞", "skip": "⏭️", "complete": "🏁", "notfound": "❓", "invalid": "💢", "progress": "➡️", "ok": "✅", "default": "➡️"}

func getEmoji(m map[string]string, key string) string {
	if val, ok := m[key]; ok {
		return val
	}
	return m["default"]
}

// Logger wraps hclog.Logger to provide the domain/action/status API.
type Logger struct {
	hclog.Logger
	format string
}

// Create creates a new Logger instance writing to stderr.
func Create(name string) Logger {
	return CreateWithOutput(name, os.Stderr)
}

// CreateWithOutput is Create with an explicit destination.
func CreateWithOutput(name string, out io.Writer) Logger {
	levelStr := os.Getenv(LogLevelEnvVar)
	level := hclog.LevelFromString(strings.ToUpper(levelStr))
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	formatStr := strings.ToLower(os.Getenv(LogFormatEnvVar))

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		Output:     out,
		JSONFormat: formatStr == FormatJSON,
	}
	return Logger{Logger: hclog.New(opts), format: formatStr}
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return Logger{Logger: hclog.NewNullLogger(), format: FormatText}
}

// With returns a Logger that attaches args to every line.
func (l Logger) With(args ...interface{}) Logger {
	return Logger{Logger: l.Logger.With(args...), format: l.format}
}

func (l Logger) log(level hclog.Level, domain, action, status, message string, args ...interface{}) {
	switch l.format {
	case FormatText:
		l.Logger.Log(level, fmt.Sprintf("[%s] %s", strings.ToUpper(domain), message), args...)
	case FormatJSON:
		l.Logger.With("domain", domain, "action", action, "status", status).Log(level, message, args...)
	default: // Emoji format
		l.Logger.Log(level, fmt.Sprintf("%s %s %s %s", getEmoji(domains, domain), getEmoji(actions, action), getEmoji(statuses, status), message), args...)
	}
}

func (l Logger) Info(domain, action, status, message string, args ...interface{}) {
	l.log(hclog.Info, domain, action, status, message, args...)
}
func (l Logger) Debug(domain, action, status, message string, args ...interface{}) {
	l.log(hclog.Debug, domain, action, status, message, args...)
}
func (l Logger) Warn(domain, action, status, message string, args ...interface{}) {
	l.log(hclog.Warn, domain, action, status, message, args...)
}
func (l Logger) Error(domain, action, status, message string, args ...interface{}) {
	l.log(hclog.Error, domain, action, status, message, args...)
}
