// Package identity validates caller and recipient addresses.
package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/stellar/go/strkey"
)

// Supported address formats.
const (
	FormatPlain   = "plain"
	FormatStellar = "stellar"
)

const maxPlainLength = 128

var plainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._:@/-]*$`)

// New returns the validator for format. An empty format selects plain.
func New(format string) (deal.AddressValidator, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatPlain:
		return Plain{}, nil
	case FormatStellar:
		return Stellar{}, nil
	default:
		return nil, fmt.Errorf("unknown address format %q", format)
	}
}

// Plain accepts opaque printable identifiers such as "creator" or
// "user@example". Comparison is exact.
type Plain struct{}

// ValidateAddress implements deal.AddressValidator.
func (Plain) ValidateAddress(raw string) (deal.Address, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("address is required")
	}
	if len(value) > maxPlainLength {
		return "", fmt.Errorf("address exceeds %d characters", maxPlainLength)
	}
	if !plainPattern.MatchString(value) {
		return "", fmt.Errorf("address %q contains unsupported characters", value)
	}
	return deal.Address(value), nil
}

// Stellar accepts ed25519 account ids in strkey form ("G...").
type Stellar struct{}

// ValidateAddress implements deal.AddressValidator.
func (Stellar) ValidateAddress(raw string) (deal.Address, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("address is required")
	}
	if _, err := strkey.Decode(strkey.VersionByteAccountID, value); err != nil {
		return "", fmt.Errorf("invalid stellar account id: %w", err)
	}
	return deal.Address(value), nil
}
