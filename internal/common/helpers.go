package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const SOLDecimals = 9 // SOL has 9 decimals (lamports)

// LamportsToSOL converts lamports to SOL string without float precision loss
func LamportsToSOL(lamports uint64) string {
	return formatWithDecimals(lamports, SOLDecimals)
}

// SOLToLamports converts SOL string to lamports without float precision loss.
// Digits beyond 9 decimals are rejected rather than truncated.
func SOLToLamports(sol string) (uint64, error) {
	return parseWithDecimals(sol, SOLDecimals)
}

// FiatValue multiplies a lamport amount by a decimal rate per whole SOL.
// Float is used only for display, never for amounts sent on-chain.
func FiatValue(lamports uint64, rate string) (string, error) {
	r, err := strconv.ParseFloat(strings.TrimSpace(rate), 64)
	if err != nil {
		return "", fmt.Errorf("invalid rate %q: %w", rate, err)
	}
	sol, _ := strconv.ParseFloat(LamportsToSOL(lamports), 64)
	return fmt.Sprintf("%.2f", sol*r), nil
}

// CompareSOLAmounts compares two SOL decimal string amounts without float precision loss.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b, and error if parsing fails
func CompareSOLAmounts(a, b string) (int, error) {
	aVal, err := parseWithDecimals(a, SOLDecimals)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", a, err)
	}

	bVal, err := parseWithDecimals(b, SOLDecimals)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", b, err)
	}

	if aVal < bVal {
		return -1, nil
	}
	if aVal > bVal {
		return 1, nil
	}
	return 0, nil
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(24981836, 9) = "0.024981836"
func formatWithDecimals(value uint64, decimals int) string {
	s := strconv.FormatUint(value, 10)

	// Pad with leading zeros if needed
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// parseWithDecimals converts decimal string to integer by removing decimal point
// Example: parseWithDecimals("0.024981836", 9) = 24981836
func parseWithDecimals(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty amount")
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	whole, frac, hasPoint := strings.Cut(s, ".")
	if strings.Contains(frac, ".") {
		return 0, errors.New("invalid decimal format")
	}
	if whole == "" {
		whole = "0"
	}
	if hasPoint && frac == "" {
		return 0, errors.New("invalid decimal format")
	}
	if len(frac) > decimals {
		return 0, fmt.Errorf("too many decimal places: max %d", decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	return strconv.ParseUint(whole+frac, 10, 64)
}
