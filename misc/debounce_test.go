package misc

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	var calls atomic.Int32
	fired := make(chan struct{}, 10)
	d := NewDebouncer(30*time.Millisecond, func() {
		calls.Add(1)
		fired <- struct{}{}
	})

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("debounced function never fired")
	}
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })
	d.Trigger()
	d.Stop()
	d.Trigger()
	time.Sleep(40 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, low, high, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.low, tt.high); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.v, tt.low, tt.high, got, tt.want)
		}
	}
}

func TestLerpUint8(t *testing.T) {
	if got := LerpUint8(0, 255, 0); got != 0 {
		t.Errorf("LerpUint8(0, 255, 0) = %d, want 0", got)
	}
	if got := LerpUint8(0, 255, 1); got != 255 {
		t.Errorf("LerpUint8(0, 255, 1) = %d, want 255", got)
	}
	if got := LerpUint8(0, 200, 0.5); got != 100 {
		t.Errorf("LerpUint8(0, 200, 0.5) = %d, want 100", got)
	}
}
