// Package domain defines the persistence models for users, ideas and the
// commerce records around them. These types are mapped with GORM and form
// the core data layer of the IdeaX platform.
package domain

// Tier is a subscription level. It determines the baseline content,
// attachment and monetization allowances applied when an idea is posted.
type Tier string

const (
	TierFree    Tier = "FREE"
	TierBasic   Tier = "BASIC"
	TierPremium Tier = "PREMIUM"
)

// Valid reports whether t is one of the known subscription levels.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierBasic, TierPremium:
		return true
	}
	return false
}

// MonetizeType is the commercial arrangement attached to an idea.
type MonetizeType string

const (
	MonetizeNone         MonetizeType = "NONE"
	MonetizeMoney        MonetizeType = "MONEY"
	MonetizeProfitShare  MonetizeType = "PROFIT_SHARE"
	MonetizeShareholding MonetizeType = "SHAREHOLDING"
	MonetizePartnership  MonetizeType = "PARTNERSHIP"
)

// Valid reports whether m is one of the known monetization arrangements.
func (m MonetizeType) Valid() bool {
	switch m {
	case MonetizeNone, MonetizeMoney, MonetizeProfitShare, MonetizeShareholding, MonetizePartnership:
		return true
	}
	return false
}

// TxStatus is the lifecycle state of a payment attempt.
type TxStatus string

const (
	TxPending   TxStatus = "PENDING"
	TxCompleted TxStatus = "COMPLETED"
	TxFailed    TxStatus = "FAILED"
)

// TxType tags what a transaction pays for.
type TxType string

const (
	TxTierUpgrade        TxType = "TIER_UPGRADE"
	TxPayPerPostChars    TxType = "PAY_PER_POST_CHARS"
	TxPayPerPostStorage  TxType = "PAY_PER_POST_STORAGE"
	TxPayPerPostMonetize TxType = "PAY_PER_POST_MONETIZE"
)

// NotificationType categorizes a notification for client rendering.
type NotificationType string

const (
	NotifyLike         NotificationType = "LIKE"
	NotifyComment      NotificationType = "COMMENT"
	NotifyFollow       NotificationType = "FOLLOW"
	NotifyIdeaInterest NotificationType = "IDEA_INTEREST"
	NotifyTierUpgraded NotificationType = "TIER_UPGRADED"
)

// RoleAdmin marks platform administrators; everyone else is ROLE_USER.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// DisputeOpen is the initial status of a dispute; admins move it to
// RESOLVED or REJECTED out of band.
const (
	DisputeOpen     = "OPEN"
	DisputeResolved = "RESOLVED"
	DisputeRejected = "REJECTED"
)
