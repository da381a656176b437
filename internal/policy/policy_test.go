package policy

import (
	"errors"
	"strings"
	"testing"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/tier"
)

func TestCompute_BaselineOnly(t *testing.T) {
	got, err := Compute(Context{BaseTier: domain.TierFree})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got.MaxChars != 500 || got.MaxStorageBytes != 0 {
		t.Fatalf("FREE baseline unexpected: %+v", got)
	}
}

func TestCompute_AddsPurchasedUnits(t *testing.T) {
	got, err := Compute(Context{
		BaseTier:          domain.TierFree,
		ExtraCharUnits:    3,
		ExtraStorageUnits: 2,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got.MaxChars != 500+3*50 {
		t.Fatalf("MaxChars = %d; want %d", got.MaxChars, 650)
	}
	if got.MaxStorageBytes != int64(2*5)<<20 {
		t.Fatalf("MaxStorageBytes = %d; want %d", got.MaxStorageBytes, int64(10)<<20)
	}
}

func TestCompute_NegativeUnitsClampToZero(t *testing.T) {
	got, err := Compute(Context{
		BaseTier:          domain.TierBasic,
		ExtraCharUnits:    -5,
		ExtraStorageUnits: -1,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	base := tier.MustLimits(domain.TierBasic)
	if got.MaxChars != base.MaxChars || got.MaxStorageBytes != base.MaxFileSizeBytes {
		t.Fatalf("negative units must not shrink limits: %+v", got)
	}
}

func TestCompute_UnknownTier(t *testing.T) {
	_, err := Compute(Context{BaseTier: domain.Tier("GOLD")})
	if !errors.Is(err, tier.ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
}

func TestValidatePost_WithinLimits(t *testing.T) {
	v, err := ValidatePost(Context{BaseTier: domain.TierFree}, strings.Repeat("a", 500), 0, domain.MonetizeNone)
	if err != nil || v != nil {
		t.Fatalf("expected pass at exact limit, got v=%v err=%v", v, err)
	}
}

func TestValidatePost_ContentTooLong(t *testing.T) {
	v, err := ValidatePost(Context{BaseTier: domain.TierFree}, strings.Repeat("a", 501), 0, domain.MonetizeNone)
	if err != nil {
		t.Fatalf("ValidatePost: %v", err)
	}
	if v == nil || v.Code != ReasonContentTooLong {
		t.Fatalf("expected content_too_long, got %v", v)
	}
	if v.Limit != 500 || !v.PayPerPostAvailable {
		t.Fatalf("violation fields unexpected: %+v", v)
	}
	if !strings.Contains(v.Error(), "500") {
		t.Fatalf("message should carry the limit: %q", v.Error())
	}
}

func TestValidatePost_CountsRunesNotBytes(t *testing.T) {
	// 500 multi-byte runes are exactly at the FREE limit.
	content := strings.Repeat("☃", 500)
	v, err := ValidatePost(Context{BaseTier: domain.TierFree}, content, 0, domain.MonetizeNone)
	if err != nil || v != nil {
		t.Fatalf("500 runes should pass regardless of byte length, got v=%v err=%v", v, err)
	}
}

func TestValidatePost_PurchasedCharsLiftLimit(t *testing.T) {
	ctx := Context{BaseTier: domain.TierFree, ExtraCharUnits: 1}
	v, err := ValidatePost(ctx, strings.Repeat("a", 550), 0, domain.MonetizeNone)
	if err != nil || v != nil {
		t.Fatalf("550 chars should pass with one purchased unit, got v=%v err=%v", v, err)
	}
	v, err = ValidatePost(ctx, strings.Repeat("a", 551), 0, domain.MonetizeNone)
	if err != nil || v == nil || v.Code != ReasonContentTooLong {
		t.Fatalf("551 chars should still fail, got v=%v err=%v", v, err)
	}
}

func TestValidatePost_AttachmentsTooLarge(t *testing.T) {
	v, err := ValidatePost(Context{BaseTier: domain.TierBasic}, "hi", 100<<20+1, domain.MonetizeNone)
	if err != nil {
		t.Fatalf("ValidatePost: %v", err)
	}
	if v == nil || v.Code != ReasonAttachmentsTooLarge {
		t.Fatalf("expected attachments_too_large, got %v", v)
	}
	if v.Limit != 100<<20 {
		t.Fatalf("limit should be the BASIC byte ceiling, got %d", v.Limit)
	}
}

func TestValidatePost_StorageUnitsLiftLimit(t *testing.T) {
	ctx := Context{BaseTier: domain.TierBasic, ExtraStorageUnits: 1}
	v, err := ValidatePost(ctx, "hi", 105<<20, domain.MonetizeNone)
	if err != nil || v != nil {
		t.Fatalf("105 MiB should pass with one purchased unit, got v=%v err=%v", v, err)
	}
}

func TestValidatePost_MonetizeNotAllowed(t *testing.T) {
	v, err := ValidatePost(Context{BaseTier: domain.TierFree}, "hi", 0, domain.MonetizeMoney)
	if err != nil {
		t.Fatalf("ValidatePost: %v", err)
	}
	if v == nil || v.Code != ReasonMonetizeNotAllowed {
		t.Fatalf("expected monetize_not_allowed, got %v", v)
	}
	if !v.PayPerPostAvailable {
		t.Fatalf("unlock should be offered on FREE")
	}

	// BASIC lacks equity arrangements and the unlock is not offered there.
	v, err = ValidatePost(Context{BaseTier: domain.TierBasic}, "hi", 0, domain.MonetizeShareholding)
	if err != nil || v == nil || v.Code != ReasonMonetizeNotAllowed {
		t.Fatalf("expected monetize_not_allowed on BASIC equity, got v=%v err=%v", v, err)
	}
	if v.PayPerPostAvailable {
		t.Fatalf("unlock must not be offered above FREE")
	}
}

func TestValidatePost_MonetizeUnlockPermits(t *testing.T) {
	ctx := Context{BaseTier: domain.TierFree, MonetizeUnlocked: true}
	v, err := ValidatePost(ctx, "hi", 0, domain.MonetizeMoney)
	if err != nil || v != nil {
		t.Fatalf("unlock should permit the monetize type, got v=%v err=%v", v, err)
	}
}

func TestValidatePost_ChecksLengthBeforeMonetize(t *testing.T) {
	// Length is reported first when both would fail.
	v, err := ValidatePost(Context{BaseTier: domain.TierFree}, strings.Repeat("a", 600), 0, domain.MonetizeMoney)
	if err != nil {
		t.Fatalf("ValidatePost: %v", err)
	}
	if v == nil || v.Code != ReasonContentTooLong {
		t.Fatalf("length violation should win, got %v", v)
	}
}
