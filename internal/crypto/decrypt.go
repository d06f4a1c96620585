package crypto

import (
	"fmt"
)

// Decrypt opens es with password using the parameters recorded in es. Any
// authentication failure is reported as ErrDecryptionFailed and no partial
// plaintext is returned. The caller owns the result and should zero it.
func (c *Codec) Decrypt(es *EncryptedSecret, password []byte) ([]byte, error) {
	return Decrypt(es, password)
}

// Decrypt is the package-level form of Codec.Decrypt. It does not depend
// on any codec's current parameters.
func Decrypt(es *EncryptedSecret, password []byte) ([]byte, error) {
	if es == nil {
		return nil, fmt.Errorf("%w: nil secret", ErrMalformed)
	}
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if es.Version != FormatVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupported, es.Version)
	}

	p := es.Params()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch p.KDF {
	case KDFScrypt:
		if es.Scrypt == nil {
			return nil, fmt.Errorf("%w: missing scrypt parameters", ErrMalformed)
		}
	case KDFArgon2id:
		if es.Argon2 == nil {
			return nil, fmt.Errorf("%w: missing argon2 parameters", ErrMalformed)
		}
	}

	salt, err := b64.DecodeString(es.Salt)
	if err != nil || len(salt) == 0 {
		return nil, fmt.Errorf("%w: failed to decode salt", ErrMalformed)
	}
	nonce, err := b64.DecodeString(es.Nonce)
	if err != nil || len(nonce) != nonceSize(p.Cipher) {
		return nil, fmt.Errorf("%w: failed to decode nonce", ErrMalformed)
	}
	ciphertext, err := b64.DecodeString(es.CipherText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode ciphertext", ErrMalformed)
	}
	tag, err := b64.DecodeString(es.Tag)
	if err != nil || len(tag) != tagLen {
		return nil, fmt.Errorf("%w: failed to decode tag", ErrMalformed)
	}

	key, err := deriveKey(p, password, salt)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	aead, err := newAEAD(p.Cipher, key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	plaintext, err := aead.Open(nil, nonce, sealed, es.header())
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// NeedsUpgrade reports whether es was sealed with parameters other than
// the codec's current ones.
func (c *Codec) NeedsUpgrade(es *EncryptedSecret) bool {
	return !c.matches(es)
}

func (c *Codec) matches(es *EncryptedSecret) bool {
	if es.KDF != c.params.KDF || es.Cipher != c.params.Cipher {
		return false
	}
	switch es.KDF {
	case KDFScrypt:
		return es.Scrypt != nil && *es.Scrypt == c.params.Scrypt
	case KDFArgon2id:
		return es.Argon2 != nil && *es.Argon2 == c.params.Argon2
	}
	return false
}
