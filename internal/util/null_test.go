package util

import (
	"database/sql"
	"testing"
	"time"
)

func TestNullString(t *testing.T) {
	if ns := NullString(""); ns.Valid {
		t.Error("empty string should be null")
	}
	if ns := NullString("x"); !ns.Valid || ns.String != "x" {
		t.Errorf("NullString(x) = %+v", ns)
	}
}

func TestNullStringPtrRoundTrip(t *testing.T) {
	if got := NullStringToPtr(NullStringPtr(nil)); got != nil {
		t.Errorf("expected nil, got %v", got)
	}

	s := "hello"
	got := NullStringToPtr(NullStringPtr(&s))
	if got == nil || *got != "hello" {
		t.Errorf("round trip = %v", got)
	}
}

func TestNullTimeRoundTrip(t *testing.T) {
	if got := NullTimeToPtr(NullTimePtr(nil)); got != nil {
		t.Errorf("expected nil, got %v", got)
	}

	now := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
	got := NullTimeToPtr(NullTimePtr(&now))
	if got == nil || !got.Equal(now) {
		t.Errorf("round trip = %v, want %v", got, now)
	}

	if got := NullTimeToPtr(sql.NullString{String: "not a time", Valid: true}); got != nil {
		t.Errorf("unparseable time should be nil, got %v", got)
	}
}

func TestBoolToInt64(t *testing.T) {
	if BoolToInt64(true) != 1 || BoolToInt64(false) != 0 {
		t.Error("unexpected bool conversion")
	}
}
