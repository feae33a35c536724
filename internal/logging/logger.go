package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger for mode ("prod"/"production" or development). When
// path is set, output goes to that file instead of stderr, which keeps the
// terminal free for the interactive wizard. Identity fields are sanitized
// before they reach the encoder.
func New(mode, path string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	case "off", "none":
		return zap.NewNop(), nil
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}

	log, err := cfg.Build(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return Redact(c, "")
	}))
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log, nil
}

// Redact wraps core so that secret-bearing fields are replaced and user
// identifiers are hashed with salt.
func Redact(core zapcore.Core, salt string) zapcore.Core {
	return &redactCore{Core: core, salt: salt}
}

type redactCore struct {
	zapcore.Core
	salt string
}

func (c *redactCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactCore{Core: c.Core.With(c.sanitize(fields)), salt: c.salt}
}

func (c *redactCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c *redactCore) Write(e zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(e, c.sanitize(fields))
}

func (c *redactCore) sanitize(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		key := strings.ToLower(f.Key)
		switch {
		case isRedactKey(key):
			out[i] = zap.String(f.Key, "[REDACTED]")
		case isHashKey(key) && f.Type == zapcore.StringType:
			out[i] = zap.String(f.Key, hashValue(c.salt, f.String))
		default:
			out[i] = f
		}
	}
	return out
}

func isRedactKey(key string) bool {
	for _, s := range []string{"token", "authorization", "password", "secret", "api_key", "email"} {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

func isHashKey(key string) bool {
	return strings.Contains(key, "user_id") || strings.Contains(key, "session_id")
}

func hashValue(salt, raw string) string {
	if raw == "" {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(salt))
	h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}
