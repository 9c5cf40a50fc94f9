package xmlctx

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitRegisterStart(_ *testing.T) {
	// Should not panic
	emitRegisterStart(context.Background(), "com.acme")
}

func TestEmitRegisterComplete_Success(_ *testing.T) {
	emitRegisterComplete(context.Background(), "com.acme", 10*time.Millisecond, 6, 3, nil)
}

func TestEmitRegisterComplete_Error(_ *testing.T) {
	emitRegisterComplete(context.Background(), "com.acme", 10*time.Millisecond, 0, 0, errors.New("test error"))
}

func TestEmitContextBuilt(_ *testing.T) {
	emitContextBuilt(context.Background(), "com.acme", "urn:acme", 2)
}

func TestEmitResolveMiss(_ *testing.T) {
	emitResolveMiss(context.Background(), "a.x.y.T", "a.x.y")
}

func TestEmitStandaloneBuilt(_ *testing.T) {
	emitStandaloneBuilt(context.Background(), "a.x.y.T")
}

func TestEmitMarshalComplete(_ *testing.T) {
	emitMarshalComplete(context.Background(), "application/xml", "com.acme.T", 128, time.Millisecond, nil)
	emitMarshalComplete(context.Background(), "application/xml", "com.acme.T", 0, time.Millisecond, errors.New("test error"))
}

func TestEmitUnmarshalComplete(_ *testing.T) {
	emitUnmarshalComplete(context.Background(), "application/xml", "com.acme.T", 128, time.Millisecond, nil)
	emitUnmarshalComplete(context.Background(), "application/xml", "com.acme.T", 0, time.Millisecond, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalRegisterStart", SignalRegisterStart},
		{"SignalRegisterComplete", SignalRegisterComplete},
		{"SignalContextBuilt", SignalContextBuilt},
		{"SignalResolveMiss", SignalResolveMiss},
		{"SignalStandaloneBuilt", SignalStandaloneBuilt},
		{"SignalMarshalComplete", SignalMarshalComplete},
		{"SignalUnmarshalComplete", SignalUnmarshalComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}
