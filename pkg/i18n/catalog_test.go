package i18n

import "testing"

func TestTResolvesLocalizedKey(t *testing.T) {
	if got := T("fr", "status.ready"); got != "Prête pour le retrait" {
		t.Fatalf("unexpected translation: %q", got)
	}
}

func TestTFallsBackToEnglish(t *testing.T) {
	// Arabic has no "status.preparing" entry.
	if got := T("ar", "status.preparing"); got != "Being prepared" {
		t.Fatalf("expected English fallback, got %q", got)
	}
	// Unseeded language falls all the way back.
	if got := T("ja", "status.pending"); got != "Order received" {
		t.Fatalf("expected English fallback for ja, got %q", got)
	}
}

func TestTUnknownKeyReturnsKey(t *testing.T) {
	if got := T("en", "status.nonexistent"); got != "status.nonexistent" {
		t.Fatalf("expected key echo for unknown key, got %q", got)
	}
}
