package util

import "testing"

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := NewLogger(level)
		if err != nil {
			t.Errorf("NewLogger(%q): %v", level, err)
			continue
		}
		logger.Sync()
	}
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	if _, err := NewLogger("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
