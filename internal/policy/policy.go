// Package policy implements the tier-gated content and monetization rules
// applied when an idea is created or edited. It is pure: effective-limit
// arithmetic and post validation take everything they need as input and
// touch no storage, which keeps them trivially safe under concurrency and
// cheap to test exhaustively.
package policy

import (
	"fmt"
	"unicode/utf8"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/tier"
)

// EffectiveLimits is the resolved ceiling for one specific post: the tier
// baseline plus any pay-per-post units purchased for it.
type EffectiveLimits struct {
	MaxChars        int
	MaxStorageBytes int64
}

// Context carries the policy inputs for one create/update call. It is
// built once at the call site from the caller's expiry-checked tier and
// the post's own pay-per-post fields, so validation never re-derives
// scattered state.
type Context struct {
	BaseTier          domain.Tier
	ExtraCharUnits    int
	ExtraStorageUnits int
	// MonetizeUnlocked permits exactly the one monetize type being set on
	// this post; it is not a general unlock of all types.
	MonetizeUnlocked bool
}

// Compute resolves the effective limits for ctx. It fails only on an
// unknown tier, which callers should have validated upstream.
func Compute(ctx Context) (EffectiveLimits, error) {
	base, err := tier.Lookup(ctx.BaseTier)
	if err != nil {
		return EffectiveLimits{}, err
	}
	extraChars := ctx.ExtraCharUnits
	if extraChars < 0 {
		extraChars = 0
	}
	extraStorage := ctx.ExtraStorageUnits
	if extraStorage < 0 {
		extraStorage = 0
	}
	return EffectiveLimits{
		MaxChars:        base.MaxChars + extraChars*tier.CharsPerUnit,
		MaxStorageBytes: base.MaxFileSizeBytes + int64(extraStorage)*tier.StorageMBPerUnit*(1<<20),
	}, nil
}

// Violation is a policy rejection specific enough to drive an actionable
// client message, including the computed limit where one applies.
type Violation struct {
	// Code is one of the Reason* constants.
	Code string
	// Limit is the computed ceiling that was exceeded (characters or
	// bytes depending on Code); zero when not applicable.
	Limit int64
	// PayPerPostAvailable hints that a one-off purchase would lift this
	// violation.
	PayPerPostAvailable bool
}

const (
	ReasonContentTooLong      = "content_too_long"
	ReasonAttachmentsTooLarge = "attachments_too_large"
	ReasonMonetizeNotAllowed  = "monetize_not_allowed"
)

// Error renders the violation with its numeric limit so handlers can
// surface it verbatim.
func (v *Violation) Error() string {
	switch v.Code {
	case ReasonContentTooLong:
		return fmt.Sprintf("exceeds character limit, max is %d", v.Limit)
	case ReasonAttachmentsTooLarge:
		return fmt.Sprintf("attachments exceed storage limit, max is %d bytes", v.Limit)
	case ReasonMonetizeNotAllowed:
		return "monetize type not available in your tier"
	}
	return v.Code
}

// ValidatePost checks a proposed post against ctx. Checks run in
// user-facing priority order (length, then storage, then monetization)
// and the first violation found is returned. A nil return means the post
// is within policy.
func ValidatePost(ctx Context, content string, attachmentBytes int64, monetize domain.MonetizeType) (*Violation, error) {
	limits, err := Compute(ctx)
	if err != nil {
		return nil, err
	}
	base, err := tier.Lookup(ctx.BaseTier)
	if err != nil {
		return nil, err
	}

	if utf8.RuneCountInString(content) > limits.MaxChars {
		return &Violation{
			Code:                ReasonContentTooLong,
			Limit:               int64(limits.MaxChars),
			PayPerPostAvailable: true,
		}, nil
	}

	if attachmentBytes > limits.MaxStorageBytes {
		return &Violation{
			Code:                ReasonAttachmentsTooLarge,
			Limit:               limits.MaxStorageBytes,
			PayPerPostAvailable: true,
		}, nil
	}

	if monetize != domain.MonetizeNone && !base.Allows(monetize) && !ctx.MonetizeUnlocked {
		return &Violation{
			Code: ReasonMonetizeNotAllowed,
			// The unlock is only offered where a purchase can actually
			// help, mirroring the tier ladder.
			PayPerPostAvailable: ctx.BaseTier == domain.TierFree,
		}, nil
	}

	return nil, nil
}
