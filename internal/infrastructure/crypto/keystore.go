package crypto

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// KeyStore holds one encryptor per key version. New data is sealed with the
// current version; data sealed with any known version can still be opened,
// which allows key rotation without invalidating outstanding tokens.
type KeyStore struct {
	Encryptors map[int]Encryptor
	Current    int
}

func NewAESKeyStore(current int, keys map[int][]byte) (*KeyStore, error) {
	ks := &KeyStore{
		Encryptors: make(map[int]Encryptor, len(keys)),
		Current:    current,
	}

	for ver, key := range keys {
		enc, err := NewAESEncryptor(key)
		if err != nil {
			return nil, fmt.Errorf("key version %d: %w", ver, err)
		}
		ks.Encryptors[ver] = enc
	}

	if _, ok := ks.Encryptors[current]; !ok {
		return nil, fmt.Errorf("current version %d: %w", current, ErrUnknownKeyVersion)
	}

	return ks, nil
}

// Seal encrypts plainText and renders it as "v<version>.<base64url>".
func (ks *KeyStore) Seal(plainText []byte) (string, error) {
	enc, ok := ks.Encryptors[ks.Current]
	if !ok {
		return "", ErrUnknownKeyVersion
	}
	ct, err := enc.Encrypt(plainText)
	if err != nil {
		return "", err
	}
	return "v" + strconv.Itoa(ks.Current) + "." + base64.RawURLEncoding.EncodeToString(ct), nil
}

func (ks *KeyStore) Open(envelope string) ([]byte, error) {
	prefix, body, ok := strings.Cut(envelope, ".")
	if !ok || !strings.HasPrefix(prefix, "v") {
		return nil, ErrMalformedEnvelope
	}
	ver, err := strconv.Atoi(prefix[1:])
	if err != nil {
		return nil, ErrMalformedEnvelope
	}
	enc, ok := ks.Encryptors[ver]
	if !ok {
		return nil, ErrUnknownKeyVersion
	}
	ct, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrMalformedEnvelope
	}
	return enc.Decrypt(ct)
}
