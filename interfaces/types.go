package interfaces

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
)

const (
	// HardenedOffset is the wire encoding of the hardened flag (top bit of a step).
	HardenedOffset uint32 = 0x80000000

	// MaxPathSteps is the maximum number of derivation steps accepted in a request.
	MaxPathSteps = 10

	// MaxSerializedPubkeyLength is the maximum length of a base58 serialized extended key.
	MaxSerializedPubkeyLength = 113

	// MasterKeyLabel is displayed instead of a path when the empty path is requested.
	MasterKeyLabel = "(Master key)"
)

var (
	ErrPathTooLong   = errors.New("derivation path too long")
	ErrIndexTooLarge = errors.New("derivation index does not fit in 31 bits")
)

// PathStep is a single derivation step.
// Index never has the hardened bit set; hardening is carried by Hardened.
type PathStep struct {
	Index    uint32
	Hardened bool
}

// Hard returns a hardened step for index.
func Hard(index uint32) PathStep {
	return PathStep{Index: index &^ HardenedOffset, Hardened: true}
}

// Soft returns an unhardened step for index.
func Soft(index uint32) PathStep {
	return PathStep{Index: index &^ HardenedOffset}
}

// StepFromUint32 decodes the wire representation of a step.
func StepFromUint32(raw uint32) PathStep {
	return PathStep{
		Index:    raw &^ HardenedOffset,
		Hardened: raw&HardenedOffset != 0,
	}
}

// Uint32 returns the wire representation of the step.
func (s PathStep) Uint32() uint32 {
	if s.Hardened {
		return s.Index | HardenedOffset
	}
	return s.Index
}

// String renders the step with an apostrophe suffix when hardened.
func (s PathStep) String() string {
	if s.Hardened {
		return fmt.Sprintf("%d'", s.Index)
	}
	return fmt.Sprintf("%d", s.Index)
}

// DerivationPath is an ordered list of derivation steps starting at the master key.
type DerivationPath []PathStep

// NewDerivationPath builds a path from raw wire encoded steps.
func NewDerivationPath(raw []uint32) DerivationPath {
	path := make(DerivationPath, len(raw))
	for i, r := range raw {
		path[i] = StepFromUint32(r)
	}
	return path
}

// Raw returns the wire encoded steps.
func (p DerivationPath) Raw() []uint32 {
	raw := make([]uint32, len(p))
	for i, s := range p {
		raw[i] = s.Uint32()
	}
	return raw
}

// IsMaster reports whether the path addresses the master key itself.
func (p DerivationPath) IsMaster() bool {
	return len(p) == 0
}

// Equal compares two paths step by step.
func (p DerivationPath) Equal(other DerivationPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String returns the canonical "m/..." form of the path.
func (p DerivationPath) String() string {
	if p.IsMaster() {
		return "m"
	}
	return accounts.DerivationPath(p.Raw()).String()
}

// Validate checks the path fits in a single request.
func (p DerivationPath) Validate() error {
	if len(p) > MaxPathSteps {
		return fmt.Errorf("%w: %d steps, max %d", ErrPathTooLong, len(p), MaxPathSteps)
	}
	for i, s := range p {
		if s.Index&HardenedOffset != 0 {
			return fmt.Errorf("%w: step %d", ErrIndexTooLarge, i)
		}
	}
	return nil
}

// ParseDerivationPath parses an absolute path such as "m/84'/0'/0'/0/1".
// "m" alone is the master key.
func ParseDerivationPath(s string) (DerivationPath, error) {
	s = strings.TrimSpace(s)
	if s == "m" || s == "M" {
		return DerivationPath{}, nil
	}
	if !strings.HasPrefix(s, "m/") && !strings.HasPrefix(s, "M/") {
		return nil, fmt.Errorf("invalid derivation path %q: must start with m/", s)
	}
	// accounts.ParseDerivationPath only understands the apostrophe notation
	// and treats anything not starting with "m" as relative to its own root.
	s = "m" + strings.ReplaceAll(strings.ReplaceAll(s[1:], "h", "'"), "H", "'")

	raw, err := accounts.ParseDerivationPath(s)
	if err != nil {
		return nil, fmt.Errorf("invalid derivation path: %w", err)
	}

	components := strings.Split(s, "/")[1:]
	for i, c := range components {
		if !strings.HasSuffix(strings.TrimSpace(c), "'") && raw[i]&HardenedOffset != 0 {
			return nil, fmt.Errorf("%w: step %d", ErrIndexTooLarge, i)
		}
	}

	path := NewDerivationPath(raw)
	if err := path.Validate(); err != nil {
		return nil, err
	}
	return path, nil
}

// CoinTypes is the fixed pair of coin types accepted for unconfirmed export:
// the application's primary coin type and a secondary legacy one.
type CoinTypes [2]uint32

// Contains reports whether coinType is one of the accepted coin types.
func (c CoinTypes) Contains(coinType uint32) bool {
	for _, accepted := range c {
		if coinType == accepted {
			return true
		}
	}
	return false
}
