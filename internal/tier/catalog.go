// Package tier holds the static subscription catalog: per-tier content,
// attachment and monetization allowances plus the pay-per-post rate table.
// The catalog is compiled in by design; pricing cannot drift at runtime.
package tier

import (
	"errors"
	"fmt"

	"github.com/Abroon25/ideax/internal/domain"
)

// ErrUnknownTier is returned by Limits when the tier key is not in the
// catalog. This is a configuration error: tier values are validated at
// every mutation site, so it should never surface in normal operation.
var ErrUnknownTier = errors.New("unknown tier")

// Limits are the baseline allowances of a single tier.
type Limits struct {
	// MaxChars caps idea content length in runes.
	MaxChars int
	// MaxFileSizeBytes caps the summed size of a post's attachments.
	MaxFileSizeBytes int64
	// MonetizeTypes are the arrangements this tier may attach to a post.
	// NONE is always included.
	MonetizeTypes []domain.MonetizeType
	// MonthlyPrice is the subscription price in rupees.
	MonthlyPrice int64
}

// Allows reports whether m is available to this tier without a
// pay-per-post unlock.
func (l Limits) Allows(m domain.MonetizeType) bool {
	for _, t := range l.MonetizeTypes {
		if t == m {
			return true
		}
	}
	return false
}

// Pay-per-post rate table: one-off purchases scoped to a single post.
const (
	// CharsPerUnit extra characters are granted per purchased unit.
	CharsPerUnit = 50
	// UnitPriceChars is the price of one character unit, in rupees.
	UnitPriceChars = 1
	// StorageMBPerUnit extra attachment megabytes per purchased unit.
	StorageMBPerUnit = 5
	// UnitPriceStorage is the price of one storage unit, in rupees.
	UnitPriceStorage = 1
	// MonetizeUnlockPrice is the flat fee to monetize a single post
	// outside the tier's allowance.
	MonetizeUnlockPrice = 10
)

const mib = 1 << 20

var catalog = map[domain.Tier]Limits{
	domain.TierFree: {
		MaxChars:         500,
		MaxFileSizeBytes: 0,
		MonetizeTypes:    []domain.MonetizeType{domain.MonetizeNone},
		MonthlyPrice:     0,
	},
	domain.TierBasic: {
		MaxChars:         15000,
		MaxFileSizeBytes: 100 * mib,
		MonetizeTypes: []domain.MonetizeType{
			domain.MonetizeNone, domain.MonetizeMoney, domain.MonetizeProfitShare,
		},
		MonthlyPrice: 499,
	},
	domain.TierPremium: {
		MaxChars:         50000,
		MaxFileSizeBytes: 1024 * mib,
		MonetizeTypes: []domain.MonetizeType{
			domain.MonetizeNone, domain.MonetizeMoney, domain.MonetizeProfitShare,
			domain.MonetizeShareholding, domain.MonetizePartnership,
		},
		MonthlyPrice: 1999,
	},
}

// Lookup returns the allowances for t, or ErrUnknownTier when t is not a
// catalog key.
func Lookup(t domain.Tier) (Limits, error) {
	l, ok := catalog[t]
	if !ok {
		return Limits{}, fmt.Errorf("%w: %q", ErrUnknownTier, t)
	}
	return l, nil
}

// MustLimits returns the allowances for t, panicking on an unknown key.
// Use only where t has already been validated.
func MustLimits(t domain.Tier) Limits {
	l, err := Lookup(t)
	if err != nil {
		panic(err)
	}
	return l
}

// All returns the full catalog keyed by tier, for the public tier-info
// endpoint. The returned map is a copy; mutating it does not affect the
// catalog.
func All() map[domain.Tier]Limits {
	out := make(map[domain.Tier]Limits, len(catalog))
	for k, v := range catalog {
		out[k] = v
	}
	return out
}
