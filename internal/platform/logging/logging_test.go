package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := New("chatty")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if log.Core().Enabled(zap.DebugLevel) {
		t.Fatal("debug should be disabled at info level")
	}
	if !log.Core().Enabled(zap.InfoLevel) {
		t.Fatal("info should be enabled")
	}
}

func TestNew_DebugLevel(t *testing.T) {
	log, err := New(" DEBUG ")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !log.Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected debug to be enabled")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected no-op logger for nil input")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Fatal("expected the same logger back")
	}
}
