package mnemonic

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// DefaultPath is the Solana BIP-44 account path used by common wallets.
const DefaultPath = "m/44'/501'/0'/0'"

const hardenedOffset uint32 = 0x80000000

// ErrInvalidPath is returned for malformed or non-hardened paths. SLIP-10
// ed25519 only defines hardened derivation.
var ErrInvalidPath = errors.New("invalid derivation path")

// Keypair is a signing key and its public address. It is only ever held
// in memory; call Wipe when done.
type Keypair struct {
	PrivateKey solana.PrivateKey
	Address    string
}

// PublicKey returns the ed25519 public key.
func (k *Keypair) PublicKey() solana.PublicKey { return k.PrivateKey.PublicKey() }

// Wipe zeroes the private key.
func (k *Keypair) Wipe() {
	if k == nil {
		return
	}
	clear(k.PrivateKey)
}

// Deriver derives keypairs from recovery phrases.
type Deriver struct {
	// Passphrase is the optional BIP-39 passphrase ("25th word").
	Passphrase string
	// Path is a hardened SLIP-10 path; empty means DefaultPath.
	Path string
}

// DeriveKeypair derives the keypair at DefaultPath with no passphrase.
func DeriveKeypair(m Mnemonic) (*Keypair, error) {
	return Deriver{}.DeriveKeypair(m)
}

// DeriveKeypair is a pure function of the phrase, passphrase and path.
func (d Deriver) DeriveKeypair(m Mnemonic) (*Keypair, error) {
	path := d.Path
	if path == "" {
		path = DefaultPath
	}
	indexes, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	seed, err := Seed(m, d.Passphrase)
	if err != nil {
		return nil, err
	}
	defer clear(seed)

	key, chainCode := slip10Master(seed)
	for _, idx := range indexes {
		nextKey, nextChain := slip10Child(key, chainCode, idx)
		clear(key)
		clear(chainCode)
		key, chainCode = nextKey, nextChain
	}
	defer clear(key)
	defer clear(chainCode)

	priv := solana.PrivateKey(ed25519.NewKeyFromSeed(key))
	return &Keypair{
		PrivateKey: priv,
		Address:    priv.PublicKey().String(),
	}, nil
}

// ParsePath parses "m/44'/501'/0'/0'" into hardened child indexes.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("%w: %q must start with m", ErrInvalidPath, path)
	}
	indexes := make([]uint32, 0, len(parts)-1)
	for _, p := range parts[1:] {
		hardened := strings.HasSuffix(p, "'") || strings.HasSuffix(p, "H") || strings.HasSuffix(p, "h")
		if !hardened {
			return nil, fmt.Errorf("%w: segment %q is not hardened", ErrInvalidPath, p)
		}
		n, err := strconv.ParseUint(p[:len(p)-1], 10, 31)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %q: %v", ErrInvalidPath, p, err)
		}
		indexes = append(indexes, uint32(n)+hardenedOffset)
	}
	return indexes, nil
}

func slip10Master(seed []byte) (key, chainCode []byte) {
	mac := hmac.New(sha512.New, []byte("ed25519 seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

func slip10Child(key, chainCode []byte, index uint32) ([]byte, []byte) {
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, key...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	clear(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}
