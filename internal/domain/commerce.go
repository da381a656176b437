package domain

import (
	"time"
)

// Transaction records a payment attempt: a tier upgrade or a pay-per-post
// purchase. A TIER_UPGRADE transaction reaching COMPLETED is the only path
// that mutates the user's tier outside direct admin action.
//
// Metadata carries type-specific detail (target tier, extra char or
// storage units) so verification can apply the purchase without a second
// lookup.
type Transaction struct {
	ID     string   `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID string   `json:"user_id" gorm:"type:char(36);not null;index"`
	Type   TxType   `json:"type"    gorm:"type:varchar(32);not null"`
	Status TxStatus `json:"status"  gorm:"type:varchar(16);not null;default:'PENDING';index"`
	Amount int64    `json:"amount"  gorm:"not null"` // rupees

	OrderID   string `json:"order_id"   gorm:"type:varchar(64);index"`
	PaymentID string `json:"payment_id" gorm:"type:varchar(64)"`
	Signature string `json:"-"          gorm:"type:varchar(128)"`

	MetaTier         Tier `json:"meta_tier,omitempty"          gorm:"type:varchar(16)"`
	MetaCharUnits    int  `json:"meta_char_units,omitempty"    gorm:"not null;default:0"`
	MetaStorageUnits int  `json:"meta_storage_units,omitempty" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Transaction.
func (Transaction) TableName() string { return "transactions" }

// NDA is the confidentiality artifact generated before a purchase
// conversation. Generating one does not mark the idea sold; the two facts
// are independent.
type NDA struct {
	ID       string `json:"id"        gorm:"type:char(36);primaryKey"`
	IdeaID   string `json:"idea_id"   gorm:"type:char(36);not null;index"`
	BuyerID  string `json:"buyer_id"  gorm:"type:char(36);not null;index"`
	SellerID string `json:"seller_id" gorm:"type:char(36);not null"`

	CreatedAt time.Time `json:"created_at"`

	Idea Idea `json:"-" gorm:"foreignKey:IdeaID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for NDA.
func (NDA) TableName() string { return "ndas" }

// Dispute is raised by a party of a transaction and reviewed by admins.
type Dispute struct {
	ID            string `json:"id"             gorm:"type:char(36);primaryKey"`
	TransactionID string `json:"transaction_id" gorm:"type:char(36);not null;index"`
	RaisedByID    string `json:"raised_by_id"   gorm:"type:char(36);not null"`
	Reason        string `json:"reason"         gorm:"type:varchar(2000);not null"`
	Status        string `json:"status"         gorm:"type:varchar(16);not null;default:'OPEN';index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Transaction Transaction `json:"-" gorm:"foreignKey:TransactionID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Dispute.
func (Dispute) TableName() string { return "disputes" }

// Notification is a fire-and-forget record pointing a recipient at an
// action that touched them. Creation failures never block the triggering
// action.
type Notification struct {
	ID          string           `json:"id"           gorm:"type:char(36);primaryKey"`
	Type        NotificationType `json:"type"         gorm:"type:varchar(32);not null"`
	RecipientID string           `json:"recipient_id" gorm:"type:char(36);not null;index"`
	SenderID    *string          `json:"sender_id"    gorm:"type:char(36)"`
	IdeaID      *string          `json:"idea_id"      gorm:"type:char(36)"`
	Message     string           `json:"message"      gorm:"type:varchar(512);not null"`
	IsRead      bool             `json:"is_read"      gorm:"not null;default:false;index"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Recipient User `json:"-" gorm:"foreignKey:RecipientID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }
