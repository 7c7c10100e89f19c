// internal/provider/errors_test.go
package provider

import (
	"errors"
	"fmt"
	"testing"
	"unicode/utf8"
)

func TestTruncate_KeepsRuneBoundary(t *testing.T) {
	s := "aðalrás" // ð and á are two bytes each

	for n := 0; n <= len(s)+1; n++ {
		got := Truncate(s, n)
		if len(got) > n {
			t.Fatalf("n=%d: len %d exceeds bound", n, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("n=%d: invalid utf-8 %q", n, got)
		}
	}
	if got := Truncate(s, 2); got != "a" {
		t.Fatalf("cut inside ð should back off, got %q", got)
	}
	if got := Truncate(s, 3); got != "að" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate(s, 100); got != s {
		t.Fatalf("short input should pass through, got %q", got)
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("cycle: %w", &Error{Kind: KindTimeout, Op: "openclaw status"})

	if KindOf(err) != KindTimeout || !IsKind(err, KindTimeout) {
		t.Fatalf("wrapped kind lost: %v", err)
	}
	if KindOf(errors.New("plain")) != KindUnknown || IsKind(nil, KindUnknown) {
		t.Fatalf("plain errors are unknown and nil is no kind")
	}
	if KindHTTP.String() != "TransportError" {
		t.Fatalf("got %s", KindHTTP)
	}
}
