package turso

import (
	"context"
	"errors"
	"testing"
)

func TestIsStreamError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"stream error", errors.New("hrana: stream not found"), true},
		{"other error", errors.New("constraint violation"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStreamError(tt.err); got != tt.want {
				t.Errorf("IsStreamError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("retries stream errors", func(t *testing.T) {
		calls := 0
		got, err := withRetry(context.Background(), 2, func() (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("stream not found")
			}
			return 42, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 42 || calls != 3 {
			t.Errorf("got %d after %d calls, want 42 after 3", got, calls)
		}
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		_, err := withRetry(context.Background(), 2, func() (int, error) {
			calls++
			return 0, errors.New("constraint violation")
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		_, err := withRetry(context.Background(), 2, func() (int, error) {
			calls++
			return 0, errors.New("stream not found")
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})
}
