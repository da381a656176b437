package domain

import (
	"time"

	"gorm.io/gorm"
)

// Genre is a content category. Genres are seeded at startup and referenced
// by ideas and by user onboarding selections.
type Genre struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(64);not null"`
	Slug        string    `json:"slug"        gorm:"type:varchar(64);not null;uniqueIndex"`
	Category    string    `json:"category"    gorm:"type:varchar(32);not null"`
	Icon        string    `json:"icon"        gorm:"type:varchar(16)"`
	Description string    `json:"description" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Genre.
func (Genre) TableName() string { return "genres" }

// Idea is a posted, optionally monetized text post.
//
// CharCount always equals the rune length of Content at the last write.
// The pay-per-post fields (ExtraCharsPaid, ExtraStoragePaid, MonetizePaid)
// record one-off purchased allowances scoped to this specific post; they
// feed the policy check at creation and never leak into the author's tier.
// Monetization eligibility is enforced once, at write time; a later tier
// change does not retroactively invalidate the stored MonetizeType.
type Idea struct {
	ID       string `json:"id"        gorm:"type:char(36);primaryKey"`
	AuthorID string `json:"author_id" gorm:"type:char(36);not null;index"`
	GenreID  string `json:"genre_id"  gorm:"type:char(36);not null;index"`
	Category string `json:"category"  gorm:"type:varchar(32);not null;index"`

	Content   string `json:"content"    gorm:"type:text;not null"`
	CharCount int    `json:"char_count" gorm:"not null"`
	IsPublic  bool   `json:"is_public"  gorm:"not null;default:true"`

	MonetizeType    MonetizeType `json:"monetize_type" gorm:"type:varchar(16);not null;default:'NONE';index"`
	AskingPrice     *float64     `json:"asking_price,omitempty"`
	ProfitSharePct  *float64     `json:"profit_share_pct,omitempty"`
	ShareHoldingPct *float64     `json:"share_holding_pct,omitempty"`

	ExtraCharsPaid   int  `json:"extra_chars_paid"   gorm:"not null;default:0"`
	ExtraStoragePaid int  `json:"extra_storage_paid" gorm:"not null;default:0"`
	MonetizePaid     bool `json:"monetize_paid"      gorm:"not null;default:false"`

	IsSold        bool    `json:"is_sold"        gorm:"not null;default:false"`
	TotalEarnings float64 `json:"total_earnings" gorm:"not null;default:0"`
	ViewCount     int64   `json:"view_count"     gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author      User         `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Genre       Genre        `json:"genre" gorm:"foreignKey:GenreID;references:ID"`
	Attachments []Attachment `json:"attachments" gorm:"foreignKey:IdeaID"`
}

// TableName returns the database table name for Idea.
func (Idea) TableName() string { return "ideas" }

// Attachment is a file hosted in object storage and owned by one idea.
// Its size counts against the storage allowance at creation time only.
type Attachment struct {
	ID       string `json:"id"        gorm:"type:char(36);primaryKey"`
	IdeaID   string `json:"idea_id"   gorm:"type:char(36);not null;index"`
	FileName string `json:"file_name" gorm:"type:varchar(255);not null"`
	FileType string `json:"file_type" gorm:"type:varchar(128)"`
	FileSize int64  `json:"file_size" gorm:"not null"`
	FileURL  string `json:"file_url"  gorm:"type:varchar(512);not null"`
	RemoteID string `json:"-"         gorm:"type:varchar(255)"`

	CreatedAt time.Time `json:"created_at"`

	Idea Idea `json:"-" gorm:"foreignKey:IdeaID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Attachment.
func (Attachment) TableName() string { return "attachments" }

// Like marks that a user liked an idea. Unique per (user, idea) so the
// toggle endpoint can treat a constraint hit as "already liked".
type Like struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_like_user_idea"`
	IdeaID    string    `json:"idea_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_like_user_idea"`
	CreatedAt time.Time `json:"created_at"`

	Idea Idea `json:"-" gorm:"foreignKey:IdeaID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Like.
func (Like) TableName() string { return "likes" }

// Bookmark saves an idea to the user's reading list. Same uniqueness and
// toggle semantics as Like.
type Bookmark struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_bookmark_user_idea"`
	IdeaID    string    `json:"idea_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_bookmark_user_idea"`
	CreatedAt time.Time `json:"created_at"`

	Idea Idea `json:"-" gorm:"foreignKey:IdeaID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Bookmark.
func (Bookmark) TableName() string { return "bookmarks" }

// Comment is a reply on an idea. Top-level comments have a nil ParentID;
// one level of nesting is supported through it.
type Comment struct {
	ID       string  `json:"id"        gorm:"type:char(36);primaryKey"`
	IdeaID   string  `json:"idea_id"   gorm:"type:char(36);not null;index"`
	UserID   string  `json:"user_id"   gorm:"type:char(36);not null;index"`
	ParentID *string `json:"parent_id" gorm:"type:char(36);index"`
	Content  string  `json:"content"   gorm:"type:varchar(1000);not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"user" gorm:"foreignKey:UserID;references:ID"`
	Idea Idea `json:"-"    gorm:"foreignKey:IdeaID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// IdeaInterest is a prospective buyer's non-binding expression of interest
// in a monetized, unsold idea. At most one row per (idea, user);
// resubmission overwrites the stored message and offer.
type IdeaInterest struct {
	ID          string   `json:"id"           gorm:"type:char(36);primaryKey"`
	IdeaID      string   `json:"idea_id"      gorm:"type:char(36);not null;index;uniqueIndex:ux_interest_idea_user"`
	UserID      string   `json:"user_id"      gorm:"type:char(36);not null;index;uniqueIndex:ux_interest_idea_user"`
	Message     string   `json:"message"      gorm:"type:varchar(2000)"`
	OfferAmount *float64 `json:"offer_amount,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"user" gorm:"foreignKey:UserID;references:ID"`
	Idea Idea `json:"-"    gorm:"foreignKey:IdeaID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for IdeaInterest.
func (IdeaInterest) TableName() string { return "idea_interests" }
