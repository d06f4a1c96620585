// Package crypto encrypts wallet secrets under a user password: a slow,
// memory-hard KDF derives the key and an AEAD cipher seals the secret.
// The resulting EncryptedSecret records everything needed to decrypt it.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

var (
	// ErrDecryptionFailed means the authentication tag did not verify:
	// wrong password or corrupted data. No plaintext is returned.
	ErrDecryptionFailed = errors.New("decryption failed: wrong password or corrupted data")
	ErrUnsupported      = errors.New("unsupported encryption format")
	ErrMalformed        = errors.New("malformed encrypted secret")
	ErrWeakParams       = errors.New("key derivation parameters out of bounds")
	ErrEmptyPassword    = errors.New("password cannot be empty")
)

// EncryptedSecret is the self-describing at-rest form of a secret. Byte
// fields are base64 (standard encoding).
type EncryptedSecret struct {
	Version    int           `json:"version"`
	KDF        string        `json:"kdf"`
	Cipher     string        `json:"cipher"`
	Scrypt     *ScryptParams `json:"scrypt,omitempty"`
	Argon2     *Argon2Params `json:"argon2,omitempty"`
	Salt       string        `json:"salt"`
	Nonce      string        `json:"nonce"`
	CipherText string        `json:"cipherText"`
	Tag        string        `json:"tag"`
}

// Marshal encodes the secret as JSON.
func (e *EncryptedSecret) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// ParseEncryptedSecret decodes JSON produced by Marshal.
func ParseEncryptedSecret(data []byte) (*EncryptedSecret, error) {
	var es EncryptedSecret
	if err := json.Unmarshal(data, &es); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &es, nil
}

// Clone returns a deep copy.
func (e *EncryptedSecret) Clone() *EncryptedSecret {
	if e == nil {
		return nil
	}
	out := *e
	if e.Scrypt != nil {
		s := *e.Scrypt
		out.Scrypt = &s
	}
	if e.Argon2 != nil {
		a := *e.Argon2
		out.Argon2 = &a
	}
	return &out
}

// Params returns the KDF and cipher parameters recorded in the blob.
func (e *EncryptedSecret) Params() Params {
	p := Params{KDF: e.KDF, Cipher: e.Cipher}
	if e.Scrypt != nil {
		p.Scrypt = *e.Scrypt
	}
	if e.Argon2 != nil {
		p.Argon2 = *e.Argon2
	}
	return p
}

// header is bound as associated data so the recorded suite cannot be
// swapped without failing authentication.
func (e *EncryptedSecret) header() []byte {
	return []byte("walletkeeper:v" + strconv.Itoa(e.Version) + ":" + e.KDF + ":" + e.Cipher)
}

func deriveKey(p Params, password, salt []byte) ([]byte, error) {
	switch p.KDF {
	case KDFScrypt:
		key, err := scrypt.Key(password, salt, p.Scrypt.N, p.Scrypt.R, p.Scrypt.P, keyLen)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key: %w", err)
		}
		return key, nil
	case KDFArgon2id:
		return argon2.IDKey(password, salt, p.Argon2.Time, p.Argon2.MemoryKB, p.Argon2.Threads, keyLen), nil
	}
	return nil, fmt.Errorf("%w: kdf %q", ErrUnsupported, p.KDF)
}

func newAEAD(name string, key []byte) (cipher.AEAD, error) {
	switch name {
	case CipherAESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create cipher: %w", err)
		}
		aesGCM, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCM: %w", err)
		}
		return aesGCM, nil
	case CipherXChaCha20Poly1305:
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create cipher: %w", err)
		}
		return aead, nil
	}
	return nil, fmt.Errorf("%w: cipher %q", ErrUnsupported, name)
}

func nonceSize(name string) int {
	if name == CipherXChaCha20Poly1305 {
		return chacha20poly1305.NonceSizeX
	}
	return 12
}

var b64 = base64.StdEncoding
