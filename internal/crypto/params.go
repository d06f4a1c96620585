package crypto

import (
	"fmt"
)

const (
	KDFScrypt   = "scrypt"
	KDFArgon2id = "argon2id"

	CipherAESGCM            = "aes-256-gcm"
	CipherXChaCha20Poly1305 = "xchacha20-poly1305"

	// FormatVersion is written into every EncryptedSecret.
	FormatVersion = 1

	keyLen  = 32
	saltLen = 32
	tagLen  = 16
)

// ScryptParams are the scrypt work factors.
type ScryptParams struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

// Argon2Params are the argon2id work factors.
type Argon2Params struct {
	Time     uint32 `json:"time"`
	MemoryKB uint32 `json:"memoryKB"`
	Threads  uint8  `json:"threads"`
}

// Params select the KDF, cipher and work factors for new encryptions.
// Decryption always uses the parameters recorded in the blob.
type Params struct {
	KDF    string
	Cipher string
	Scrypt ScryptParams
	Argon2 Argon2Params
}

// DefaultParams returns the production parameters.
//
// scrypt N=2^18 (~256MB RAM, 0.5-2s) stays usable on phones, whose
// per-app memory limits rule out N=2^20.
func DefaultParams() Params {
	return Params{
		KDF:    KDFScrypt,
		Cipher: CipherAESGCM,
		Scrypt: ScryptParams{N: 1 << 18, R: 8, P: 1},
		Argon2: Argon2Params{Time: 3, MemoryKB: 64 * 1024, Threads: 4},
	}
}

// TestParams returns the weakest accepted work factors. Tests only.
func TestParams() Params {
	return Params{
		KDF:    KDFScrypt,
		Cipher: CipherAESGCM,
		Scrypt: ScryptParams{N: minScryptN, R: 8, P: 1},
		Argon2: Argon2Params{Time: 1, MemoryKB: minArgon2MemoryKB, Threads: 1},
	}
}

const (
	minScryptN        = 1 << 10
	maxScryptN        = 1 << 22
	maxScryptRP       = 1 << 8
	minArgon2MemoryKB = 8 * 1024
	maxArgon2MemoryKB = 4 * 1024 * 1024
	maxArgon2Time     = 64
)

func (p ScryptParams) validate() error {
	if p.N < minScryptN || p.N > maxScryptN || p.N&(p.N-1) != 0 {
		return fmt.Errorf("%w: scrypt N must be a power of two in [2^10, 2^22], got %d", ErrWeakParams, p.N)
	}
	if p.R < 1 || p.P < 1 || p.R > maxScryptRP || p.P > maxScryptRP {
		return fmt.Errorf("%w: scrypt r and p must be in [1, %d]", ErrWeakParams, maxScryptRP)
	}
	return nil
}

func (p Argon2Params) validate() error {
	if p.Time < 1 || p.Time > maxArgon2Time {
		return fmt.Errorf("%w: argon2 time must be in [1, %d], got %d", ErrWeakParams, maxArgon2Time, p.Time)
	}
	if p.MemoryKB < minArgon2MemoryKB || p.MemoryKB > maxArgon2MemoryKB {
		return fmt.Errorf("%w: argon2 memory must be in [%d, %d] KiB, got %d", ErrWeakParams, minArgon2MemoryKB, maxArgon2MemoryKB, p.MemoryKB)
	}
	if p.Threads < 1 {
		return fmt.Errorf("%w: argon2 threads must be at least 1", ErrWeakParams)
	}
	return nil
}

// Validate checks that the selected suite is known and its work factors
// are within bounds.
func (p Params) Validate() error {
	switch p.Cipher {
	case CipherAESGCM, CipherXChaCha20Poly1305:
	default:
		return fmt.Errorf("%w: cipher %q", ErrUnsupported, p.Cipher)
	}
	switch p.KDF {
	case KDFScrypt:
		return p.Scrypt.validate()
	case KDFArgon2id:
		return p.Argon2.validate()
	default:
		return fmt.Errorf("%w: kdf %q", ErrUnsupported, p.KDF)
	}
}
