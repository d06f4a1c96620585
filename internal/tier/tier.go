// Package tier classifies where a wallet record is held and produces
// advisory guidance for the user. Tiers never gate an operation.
package tier

import (
	"fmt"
	"strings"
)

// Tier is the trust level of the medium holding a wallet record.
type Tier string

const (
	Basic    Tier = "BASIC"
	Enhanced Tier = "ENHANCED"
	Maximum  Tier = "MAXIMUM"
)

// Medium is the declared storage medium of a wallet store.
type Medium string

const (
	MediumLocal     Medium = "local"     // this host's persistent storage
	MediumCompanion Medium = "companion" // companion mobile/authenticator-backed store
	MediumHardware  Medium = "hardware"  // dedicated hardware isolation
)

// All returns the tiers in ascending order of trust.
func All() []Tier {
	return []Tier{Basic, Enhanced, Maximum}
}

// Parse converts a tier tag (case-insensitive) into a Tier.
func Parse(s string) (Tier, error) {
	switch Tier(strings.ToUpper(strings.TrimSpace(s))) {
	case Basic:
		return Basic, nil
	case Enhanced:
		return Enhanced, nil
	case Maximum:
		return Maximum, nil
	}
	return "", fmt.Errorf("unknown security tier %q", s)
}

// ParseMedium converts a medium tag into a Medium.
func ParseMedium(s string) (Medium, error) {
	switch Medium(strings.ToLower(strings.TrimSpace(s))) {
	case MediumLocal, "":
		return MediumLocal, nil
	case MediumCompanion:
		return MediumCompanion, nil
	case MediumHardware:
		return MediumHardware, nil
	}
	return "", fmt.Errorf("unknown storage medium %q", s)
}

// ForMedium maps a storage medium to its tier.
func ForMedium(m Medium) Tier {
	switch m {
	case MediumCompanion:
		return Enhanced
	case MediumHardware:
		return Maximum
	default:
		return Basic
	}
}

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	return t == Basic || t == Enhanced || t == Maximum
}

func (t Tier) String() string {
	if !t.Valid() {
		return string(Basic)
	}
	return string(t)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

var descriptions = map[Tier]string{
	Basic: "Basic security: the encrypted wallet is kept in this device's ordinary local storage. " +
		"Anyone who copies that storage can attempt to guess your password offline.",
	Enhanced: "Enhanced security: the encrypted wallet is kept in a companion mobile or authenticator-backed store, " +
		"separate from the device you browse with.",
	Maximum: "Maximum security: the wallet is isolated in dedicated hardware and key material never leaves it.",
}

var recommendations = map[Tier][]string{
	Basic: {
		"Write your recovery phrase on paper and store it offline.",
		"Use a long, unique password for this wallet.",
		"Lock the wallet when you step away from this device.",
		"Move the wallet to a companion app or hardware device for larger balances.",
	},
	Enhanced: {
		"Keep your recovery phrase offline, separate from the companion device.",
		"Protect the companion device with a screen lock and keep it updated.",
		"Consider a hardware wallet for long-term storage.",
	},
}

// Describe returns human-readable text for a tier. Unknown values are
// described as Basic.
func Describe(t Tier) string {
	if d, ok := descriptions[t]; ok {
		return d
	}
	return descriptions[Basic]
}

// Recommendations returns the ordered advice for a tier, empty for
// Maximum. The returned slice is a copy.
func Recommendations(t Tier) []string {
	if !t.Valid() {
		t = Basic
	}
	recs := recommendations[t]
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}
