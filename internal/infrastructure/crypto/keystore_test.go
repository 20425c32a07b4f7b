package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func key(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func tamper(envelope string) string {
	b := []byte(envelope)
	i := len(b) - 5
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestKeyStore_SealOpenAcrossRotation(t *testing.T) {
	old, err := NewAESKeyStore(1, map[int][]byte{1: key(1, 32)})
	if err != nil {
		t.Fatalf("NewAESKeyStore: %v", err)
	}
	sealed, err := old.Seal([]byte(`{"sub":"bot@mail.com"}`))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !strings.HasPrefix(sealed, "v1.") {
		t.Fatalf("envelope %q lacks version prefix", sealed)
	}

	rotated, err := NewAESKeyStore(2, map[int][]byte{1: key(1, 32), 2: key(2, 16)})
	if err != nil {
		t.Fatalf("NewAESKeyStore rotated: %v", err)
	}
	plain, err := rotated.Open(sealed)
	if err != nil {
		t.Fatalf("Open old envelope after rotation: %v", err)
	}
	if string(plain) != `{"sub":"bot@mail.com"}` {
		t.Errorf("Open = %q", plain)
	}

	fresh, err := rotated.Seal([]byte("x"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !strings.HasPrefix(fresh, "v2.") {
		t.Errorf("new envelope %q not sealed with current version", fresh)
	}
}

func TestKeyStore_OpenErrors(t *testing.T) {
	ks, err := NewAESKeyStore(1, map[int][]byte{1: key(7, 32)})
	if err != nil {
		t.Fatalf("NewAESKeyStore: %v", err)
	}
	good, err := ks.Seal([]byte("payload"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	tests := []struct {
		name     string
		envelope string
		want     error
	}{
		{"no dot", "v1abc", ErrMalformedEnvelope},
		{"no version prefix", "x1.abc", ErrMalformedEnvelope},
		{"non numeric version", "vX.abc", ErrMalformedEnvelope},
		{"unknown version", "v9.abc", ErrUnknownKeyVersion},
		{"bad base64", "v1.***", ErrMalformedEnvelope},
		{"tampered", tamper(good), ErrDecryptionFail},
		{"truncated", "v1.AAAA", ErrDecryptionFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ks.Open(tt.envelope)
			if !errors.Is(err, tt.want) {
				t.Errorf("Open(%q) error = %v, want %v", tt.envelope, err, tt.want)
			}
		})
	}
}

func TestNewAESKeyStore_Errors(t *testing.T) {
	if _, err := NewAESKeyStore(1, map[int][]byte{1: key(1, 10)}); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("short key error = %v, want ErrInvalidKeySize", err)
	}
	if _, err := NewAESKeyStore(3, map[int][]byte{1: key(1, 32)}); !errors.Is(err, ErrUnknownKeyVersion) {
		t.Errorf("missing current error = %v, want ErrUnknownKeyVersion", err)
	}
}
