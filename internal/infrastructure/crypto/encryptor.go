package crypto

// Encryptor is a symmetric authenticated cipher. Decrypt must reject any
// ciphertext that was not produced by Encrypt with the same key.
type Encryptor interface {
	Encrypt(plainText []byte) ([]byte, error)
	Decrypt(cipherText []byte) ([]byte, error)
}
