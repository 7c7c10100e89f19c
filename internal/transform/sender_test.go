// internal/transform/sender_test.go
package transform

import "testing"

func TestResolve_ExactMatch(t *testing.T) {
	m := testSenders()
	if got := m.Resolve("Frost", "whatever"); got != "frost" {
		t.Fatalf("got=%s want=frost", got)
	}
}

func TestResolve_SubstringOfUsername(t *testing.T) {
	m := testSenders()
	if got := m.Resolve("Frost-bot", "FROST_webhook"); got != "frost" {
		t.Fatalf("got=%s want=frost", got)
	}
}

func TestResolve_UnknownFallsBack(t *testing.T) {
	m := testSenders()
	if got := m.Resolve("Nobody", "nobody"); got != "arnar" {
		t.Fatalf("got=%s want=arnar", got)
	}
}

func TestResolve_NonASCIIFolding(t *testing.T) {
	m := NewSenderMapping([]Sender{
		{Name: "Dögg", ID: "dogg"},
		{Name: "Blær", ID: "blaer"},
	}, "arnar")

	// Decomposed form (o + combining diaeresis) is not byte-equal to the
	// configured name but must still match exactly after normalization.
	if got := m.Resolve("Do\u0308gg", "x"); got != "dogg" {
		t.Fatalf("got=%s want=dogg", got)
	}
	if got := m.Resolve("hook", "BLÆR-relay"); got != "blaer" {
		t.Fatalf("case-folded substring: got=%s want=blaer", got)
	}
}

func TestResolve_FirstConfiguredWinsOnAmbiguity(t *testing.T) {
	m := NewSenderMapping([]Sender{
		{Name: "Regn", ID: "regn"},
		{Name: "Frost", ID: "frost"},
	}, "arnar")

	// Both names are substrings of the username.
	if got := m.Resolve("hook", "frost-and-regn"); got != "regn" {
		t.Fatalf("got=%s want=regn (first configured)", got)
	}
}

func TestResolve_SkipsIncompleteEntries(t *testing.T) {
	m := NewSenderMapping([]Sender{
		{Name: "", ID: "empty"},
		{Name: "Ylur", ID: ""},
	}, "arnar")

	if got := m.Resolve("Ylur", "anyone"); got != "arnar" {
		t.Fatalf("got=%s want=arnar", got)
	}
}
