package blacklist

import (
	"bytes"
	"log/slog"
	"testing"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestParseSignatureProviderMissingEqualsIsConfigError(t *testing.T) {
	log, _ := newTestLogger()
	_, err := ParseSignatureProvider("PUBKEYKEY:abc", log)
	if err != errMissingEquals {
		t.Fatalf("expected errMissingEquals, got %v", err)
	}
}

func TestParseSignatureProviderMissingColonIsConfigError(t *testing.T) {
	log, _ := newTestLogger()
	_, err := ParseSignatureProvider("PUBKEY=KEYabc", log)
	if err != errMissingColon {
		t.Fatalf("expected errMissingColon, got %v", err)
	}
}

func TestParseSignatureProviderKEOSDIsRejectedWithWarning(t *testing.T) {
	log, buf := newTestLogger()
	kp, err := ParseSignatureProvider("PUBKEY=KEOSD:whatever", log)
	if err != nil {
		t.Fatalf("KEOSD rejection must not abort startup, got error %v", err)
	}
	if kp != nil {
		t.Fatal("expected nil keypair for KEOSD scheme")
	}
	if buf.Len() == 0 {
		t.Fatal("expected a warning to be logged")
	}
}

func TestParseSignatureProviderUnknownSchemeIgnoredWithWarning(t *testing.T) {
	log, buf := newTestLogger()
	kp, err := ParseSignatureProvider("PUBKEY=WEIRD:whatever", log)
	if err != nil || kp != nil {
		t.Fatalf("expected nil/nil, got %v/%v", kp, err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a warning to be logged")
	}
}
