package id

import (
	"strings"
	"testing"
)

func TestNewEventID(t *testing.T) {
	a := NewEventID()
	b := NewEventID()

	if a.IsNil() || b.IsNil() {
		t.Fatal("NewEventID() returned a nil ID")
	}
	if a.String() == b.String() {
		t.Error("two generated IDs collided")
	}
	if !strings.HasPrefix(a.String(), "evt_") {
		t.Errorf("String() = %q, want evt_ prefix", a.String())
	}
	if a.Prefix() != PrefixEvent {
		t.Errorf("Prefix() = %q, want %q", a.Prefix(), PrefixEvent)
	}
}

func TestParseRoundTrip(t *testing.T) {
	orig := NewEventID()
	parsed, err := Parse(orig.String())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if parsed.String() != orig.String() {
		t.Errorf("Parse(String()) = %q, want %q", parsed.String(), orig.String())
	}
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "no-separator", "evt_!!!"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) error = nil, want error", s)
		}
	}
}

func TestTextMarshaling(t *testing.T) {
	orig := NewEventID()
	text, err := orig.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}

	var back ID
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if back.String() != orig.String() {
		t.Errorf("round trip = %q, want %q", back.String(), orig.String())
	}

	var nilID ID
	if err := nilID.UnmarshalText(nil); err != nil {
		t.Fatalf("UnmarshalText(empty) error = %v", err)
	}
	if !nilID.IsNil() {
		t.Error("UnmarshalText(empty) produced a non-nil ID")
	}
}
