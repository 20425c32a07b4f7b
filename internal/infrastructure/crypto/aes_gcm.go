package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"
)

type aesGCMEncryptor struct {
	aead cipher.AEAD
}

func NewAESEncryptor(key []byte) (Encryptor, error) {
	if !ValidateAESKey(key) {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrInvalidKeySize
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrEncryptionFail
	}

	return &aesGCMEncryptor{aead: gcm}, nil
}

// Encrypt returns nonce || ciphertext.
func (e *aesGCMEncryptor) Encrypt(plainText []byte) ([]byte, error) {
	nonceSize := e.aead.NonceSize()
	out := make([]byte, nonceSize, nonceSize+len(plainText)+e.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, out); err != nil {
		return nil, ErrEncryptionFail
	}
	return e.aead.Seal(out, out[:nonceSize], plainText, nil), nil
}

func (e *aesGCMEncryptor) Decrypt(cipherText []byte) ([]byte, error) {
	nonceSize := e.aead.NonceSize()
	if len(cipherText) < nonceSize {
		return nil, ErrDecryptionFail
	}

	plain, err := e.aead.Open(nil, cipherText[:nonceSize], cipherText[nonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFail
	}
	return plain, nil
}

func ValidateAESKey(key []byte) bool {
	switch len(key) {
	case 16, 24, 32:
		return true
	default:
		return false
	}
}
