package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Codec encrypts and decrypts secrets. The zero value is not usable; use
// NewCodec.
type Codec struct {
	params Params
	rand   io.Reader
}

// NewCodec returns a codec that encrypts with p.
func NewCodec(p Params) (*Codec, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Codec{params: p, rand: rand.Reader}, nil
}

// Params returns the parameters used for new encryptions.
func (c *Codec) Params() Params { return c.params }

// Encrypt seals secret under password with a fresh salt and nonce, so two
// encryptions of the same input never produce the same blob.
// password must be []byte for security (caller should zero it after use).
func (c *Codec) Encrypt(secret, password []byte) (*EncryptedSecret, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(c.rand, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceSize(c.params.Cipher))
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := deriveKey(c.params, password, salt)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	aead, err := newAEAD(c.params.Cipher, key)
	if err != nil {
		return nil, err
	}

	es := &EncryptedSecret{
		Version: FormatVersion,
		KDF:     c.params.KDF,
		Cipher:  c.params.Cipher,
		Salt:    b64.EncodeToString(salt),
		Nonce:   b64.EncodeToString(nonce),
	}
	switch c.params.KDF {
	case KDFScrypt:
		s := c.params.Scrypt
		es.Scrypt = &s
	case KDFArgon2id:
		a := c.params.Argon2
		es.Argon2 = &a
	}

	sealed := aead.Seal(nil, nonce, secret, es.header())
	cut := len(sealed) - aead.Overhead()
	es.CipherText = b64.EncodeToString(sealed[:cut])
	es.Tag = b64.EncodeToString(sealed[cut:])
	clear(sealed)

	return es, nil
}

// Burn runs the configured KDF once against a random salt and discards the
// result. It gives a failed lookup the same cost as a real decryption.
func (c *Codec) Burn(password []byte) {
	salt := make([]byte, saltLen)
	_, _ = io.ReadFull(c.rand, salt)
	key, err := deriveKey(c.params, password, salt)
	if err == nil {
		clear(key)
	}
}
