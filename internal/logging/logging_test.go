package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		debug     bool
		wantDebug bool
	}{
		{debug: false, wantDebug: false},
		{debug: true, wantDebug: true},
	}
	for _, tt := range tests {
		logger, err := New(tt.debug)
		if err != nil {
			t.Fatalf("New(%v) error = %v", tt.debug, err)
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
			t.Errorf("New(%v) debug enabled = %v, want %v", tt.debug, got, tt.wantDebug)
		}
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
}
