package booth

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret")
	boothID := uuid.New()

	code := signer.Encode(boothID)
	got, err := signer.Decode(code)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != boothID {
		t.Fatalf("decoded %s, want %s", got, boothID)
	}
}

func TestSignerRejectsTamperedPayload(t *testing.T) {
	signer := NewSigner("test-secret")
	code := signer.Encode(uuid.New())

	parts := strings.SplitN(code, ".", 2)
	tampered := parts[0][:len(parts[0])-2] + "xx" + "." + parts[1]

	if _, err := signer.Decode(tampered); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
}

func TestSignerRejectsWrongSecret(t *testing.T) {
	code := NewSigner("secret-a").Encode(uuid.New())

	if _, err := NewSigner("secret-b").Decode(code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
}

func TestSignerRejectsMalformedCodes(t *testing.T) {
	signer := NewSigner("test-secret")

	cases := []string{
		"",
		"no-separator",
		"not!base64.signature",
		"aGVsbG8.bad-signature",
	}
	for _, code := range cases {
		if _, err := signer.Decode(code); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("code %q: err = %v, want ErrInvalidCode", code, err)
		}
	}
}

func TestSignerCodesAreUniquePerIssue(t *testing.T) {
	signer := NewSigner("test-secret")
	boothID := uuid.New()

	a := signer.Encode(boothID)
	b := signer.Encode(boothID)
	if a == b {
		t.Fatal("two issued codes are identical, nonce is not applied")
	}
}
