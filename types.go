package propconf

import (
	"log/slog"
	"sync"
)

// UnknownPolicy controls how records naming no property are handled.
type UnknownPolicy int

const (
	UnknownPassthrough UnknownPolicy = iota // Keep them in the unknown-token table.
	UnknownStrip                            // Drop them.
	UnknownStrict                           // Reject them with an unknown_key issue.
)

// DeserializeOpt bundles deserialization options.
type DeserializeOpt struct {
	Unknown  UnknownPolicy
	FailFast bool         // Stop at the first property issue instead of skipping the record.
	MaxBytes int64        // Reader input limit; 0 means unlimited.
	Logger   *slog.Logger // Overrides the package logger for this call.
}

// SerializeOpt bundles serialization options.
type SerializeOpt struct {
	Logger *slog.Logger
}

var (
	loggerMu      sync.RWMutex
	currentLogger *slog.Logger
)

// SetLogger replaces the package logger; nil restores slog.Default.
func SetLogger(l *slog.Logger) {
	loggerMu.Lock()
	currentLogger = l
	loggerMu.Unlock()
}

func getLogger(override *slog.Logger) *slog.Logger {
	if override != nil {
		return override
	}
	loggerMu.RLock()
	l := currentLogger
	loggerMu.RUnlock()
	if l == nil {
		return slog.Default()
	}
	return l
}

func deserializeOpt(opts []DeserializeOpt) DeserializeOpt {
	if len(opts) == 0 {
		return DeserializeOpt{}
	}
	return opts[0]
}

func serializeOpt(opts []SerializeOpt) SerializeOpt {
	if len(opts) == 0 {
		return SerializeOpt{}
	}
	return opts[0]
}
