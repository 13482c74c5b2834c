package kvlm

import (
	"bytes"
	"testing"
)

const sampleCommit = `tree 29ff16c9c14e2652b22f8b78bb08a5a07930c147
parent 206941306e8a8af65b66eaaaea388a7ae24d49a0
author Thibault Polge <thibault@thb.lt> 1527025023 +0200
committer Thibault Polge <thibault@thb.lt> 1527025044 +0200
gpgsig -----BEGIN PGP SIGNATURE-----
 
 iQIzBAABCAAdFiEExwXquOM8bWb4Q2zVGxM2FxoLkGQFAlsEjZQACgkQGxM2FxoL
 kGQdlA//TCD/fcOwR3YY75NLEwKidM3pGU6zUbAQXTXf1TxxgHLczZaZVYc44NZE
 =lgTX
 -----END PGP SIGNATURE-----

Create first draft
`

func TestParseRoundTrips(t *testing.T) {
	m, err := Parse([]byte(sampleCommit))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got, _ := m.Get("tree"); got != "29ff16c9c14e2652b22f8b78bb08a5a07930c147" {
		t.Errorf("tree = %q", got)
	}
	if m.Message != "Create first draft\n" {
		t.Errorf("Message = %q", m.Message)
	}
	sig, ok := m.Get("gpgsig")
	if !ok || !bytes.Contains([]byte(sig), []byte("BEGIN PGP SIGNATURE")) {
		t.Errorf("gpgsig not un-escaped correctly: %q", sig)
	}

	out := Serialize(m)
	if string(out) != sampleCommit {
		t.Errorf("Serialize did not round-trip:\n--- got ---\n%s\n--- want ---\n%s", out, sampleCommit)
	}
}

func TestMultiValuedKeyBecomesList(t *testing.T) {
	m := New()
	m.Set("parent", "aaa")
	m.Set("parent", "bbb")
	m.Message = "merge\n"

	if got := m.All("parent"); len(got) != 2 || got[0] != "aaa" || got[1] != "bbb" {
		t.Errorf("All(parent) = %v", got)
	}
	if got, _ := m.Get("parent"); got != "bbb" {
		t.Errorf("Get(parent) = %q, want last value", got)
	}

	out, err := Parse(Serialize(m))
	if err != nil {
		t.Fatalf("re-parsing serialized message: %v", err)
	}
	if got := out.All("parent"); len(got) != 2 || got[0] != "aaa" || got[1] != "bbb" {
		t.Errorf("round-tripped All(parent) = %v", got)
	}
}

func TestSingleValueNeverBecomesOneElementList(t *testing.T) {
	m := New()
	m.Set("tree", "aaa")
	m.Message = "x\n"

	raw := Serialize(m)
	back, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := back.All("tree"); len(got) != 1 || got[0] != "aaa" {
		t.Errorf("All(tree) = %v, want single-element", got)
	}
}

func TestParseMissingBlankLineFails(t *testing.T) {
	if _, err := Parse([]byte("tree aaa\nno blank line here")); err == nil {
		t.Error("expected an error for a record with no blank-line/message separator")
	}
}
