package common

import "testing"

func TestHasAny(t *testing.T) {
	if !HasAny("a/../b", "..") {
		t.Error("expected match on substring")
	}
	if HasAny("plain.jpg", "..", "//") {
		t.Error("unexpected match")
	}
}

func TestHasPrefixAny(t *testing.T) {
	if !HasPrefixAny("https://example.com/p.jpg", "http://", "https://") {
		t.Error("expected prefix match")
	}
	if HasPrefixAny("photos/https://nope", "http://", "https://") {
		t.Error("prefix must anchor at the start")
	}
}
