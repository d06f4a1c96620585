// Package mnemonic encodes entropy as a BIP-39 recovery phrase and
// deterministically derives the wallet keypair from it.
package mnemonic

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39"
)

// ErrInvalidMnemonic covers unknown words, wrong word counts and failing
// checksums. It is a user-input error.
var ErrInvalidMnemonic = errors.New("invalid recovery phrase")

// Mnemonic is a normalized recovery phrase: lower-case words separated by
// single spaces.
type Mnemonic string

// Words splits the phrase into words.
func (m Mnemonic) Words() []string { return strings.Fields(string(m)) }

// WordCount returns the number of words in the phrase.
func (m Mnemonic) WordCount() int { return len(m.Words()) }

func (m Mnemonic) String() string { return string(m) }

// Normalize lower-cases and collapses whitespace.
func Normalize(s string) Mnemonic {
	return Mnemonic(strings.Join(strings.Fields(strings.ToLower(s)), " "))
}

// EntropySize returns the entropy length in bytes for a supported word
// count (12 → 16, 24 → 32), or 0.
func EntropySize(words int) int {
	switch words {
	case 12:
		return 16
	case 24:
		return 32
	}
	return 0
}

// WordCountFor returns the word count for an entropy length in bytes, or 0.
func WordCountFor(entropyLen int) int {
	switch entropyLen {
	case 16:
		return 12
	case 32:
		return 24
	}
	return 0
}

var (
	wordIndexOnce sync.Once
	wordIndex     map[string]struct{}
)

func inWordlist(w string) bool {
	wordIndexOnce.Do(func() {
		list := bip39.GetWordList()
		wordIndex = make(map[string]struct{}, len(list))
		for _, word := range list {
			wordIndex[word] = struct{}{}
		}
	})
	_, ok := wordIndex[w]
	return ok
}

// EntropyToMnemonic encodes 16 or 32 bytes of entropy with its checksum.
func EntropyToMnemonic(entropy []byte) (Mnemonic, error) {
	if WordCountFor(len(entropy)) == 0 {
		return "", fmt.Errorf("entropy must be 16 or 32 bytes, got %d", len(entropy))
	}
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to encode mnemonic: %w", err)
	}
	return Mnemonic(phrase), nil
}

// check returns a descriptive ErrInvalidMnemonic for the first problem found.
func check(m Mnemonic) error {
	words := m.Words()
	if EntropySize(len(words)) == 0 {
		return fmt.Errorf("%w: expected 12 or 24 words, got %d", ErrInvalidMnemonic, len(words))
	}
	for i, w := range words {
		if !inWordlist(w) {
			return fmt.Errorf("%w: word %d is not in the wordlist", ErrInvalidMnemonic, i+1)
		}
	}
	if _, err := bip39.EntropyFromMnemonic(string(m)); err != nil {
		return fmt.Errorf("%w: checksum mismatch", ErrInvalidMnemonic)
	}
	return nil
}

// MnemonicToEntropy decodes a phrase back to its entropy, rejecting it
// with ErrInvalidMnemonic rather than repairing it.
func MnemonicToEntropy(candidate string) ([]byte, error) {
	m := Normalize(candidate)
	if err := check(m); err != nil {
		return nil, err
	}
	entropy, err := bip39.EntropyFromMnemonic(string(m))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return entropy, nil
}

// Parse normalizes and validates a candidate phrase.
func Parse(candidate string) (Mnemonic, error) {
	m := Normalize(candidate)
	if err := check(m); err != nil {
		return "", err
	}
	return m, nil
}

// Validate checks word count, wordlist membership and checksum without
// returning an error.
func Validate(candidate string) bool {
	return check(Normalize(candidate)) == nil
}

// Seed derives the 64-byte BIP-39 seed (PBKDF2-SHA512, 2048 rounds).
func Seed(m Mnemonic, passphrase string) ([]byte, error) {
	if err := check(m); err != nil {
		return nil, err
	}
	seed, err := bip39.NewSeedWithErrorChecking(string(m), passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to derive seed: %w", err)
	}
	return seed, nil
}
