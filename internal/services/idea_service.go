// Package services – IdeaService
//
// This file implements IdeaService, the application-level component that
// owns the idea lifecycle: creation under tier policy, reads with view
// counting and viewer flags, owner-only updates and deletes, the feed
// with genre personalization, and search.
//
// Pay-per-post allowances ride in as completed transaction references;
// the service resolves them to extra units before the policy check so a
// purchase can never be replayed onto a second post.
//
// Observability: the heavier public methods are OpenTelemetry-
// instrumented; spans include idea/user identifiers and pagination
// parameters where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/policy"
	"github.com/Abroon25/ideax/internal/repo"
	"github.com/Abroon25/ideax/internal/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AttachmentInput is one uploaded file accompanying a new idea.
type AttachmentInput struct {
	FileName string
	FileType string
	Data     []byte
}

// CreateIdeaInput carries everything needed to post an idea. The three
// transaction IDs are optional references to COMPLETED pay-per-post
// purchases owned by the author; each consumed purchase is bound to the
// created post.
type CreateIdeaInput struct {
	Content  string
	GenreID  string
	IsPublic bool

	MonetizeType    domain.MonetizeType
	AskingPrice     *float64
	ProfitSharePct  *float64
	ShareHoldingPct *float64

	CharUnitsTxID    string
	StorageUnitsTxID string
	MonetizeTxID     string

	Attachments []AttachmentInput
}

// IdeaView is an idea decorated with viewer-specific flags and counters.
type IdeaView struct {
	domain.Idea
	Author      domain.PublicUser `json:"author"`
	LikeCount   int64             `json:"like_count"`
	CommentsNum int64             `json:"comment_count"`
	Bookmarks   int64             `json:"bookmark_count"`
	Interests   int64             `json:"interest_count"`
	IsLiked     bool              `json:"is_liked"`
	IsBookmark  bool              `json:"is_bookmarked"`
	IsOwner     bool              `json:"is_owner"`
}

// FeedQuery is the filter set accepted by the feed endpoint.
type FeedQuery struct {
	Page         int
	Limit        int
	Category     string
	GenreID      string
	MonetizeType string
	// Sort is "latest" (default) or "popular".
	Sort string
}

// IdeaService provides idea-level operations.
type IdeaService struct {
	DB       *gorm.DB
	Uploader storage.Uploader

	// MaxCommentRunes caps comment length.
	MaxCommentRunes int
}

// NewIdeaService constructs an IdeaService with default limits.
func NewIdeaService(db *gorm.DB, up storage.Uploader) *IdeaService {
	return &IdeaService{DB: db, Uploader: up, MaxCommentRunes: 1000}
}

// Create validates the post against the author's effective limits and
// persists it. Attachment uploads are best-effort: a failed upload is
// logged and skipped, never failing the post. A policy violation is
// returned as *policy.Violation for the handler to render with its
// limit.
func (s *IdeaService) Create(ctx context.Context, author *domain.User, in CreateIdeaInput) (*domain.Idea, error) {
	tr := otel.Tracer("services/IdeaService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", author.ID)),
	)
	defer span.End()

	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, ErrEmptyContent
	}
	if !in.MonetizeType.Valid() {
		return nil, ErrInvalidInput
	}

	genre, err := repo.GetGenre(ctx, s.DB, in.GenreID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}

	charUnits, err := s.resolvePurchase(ctx, author.ID, in.CharUnitsTxID, domain.TxPayPerPostChars)
	if err != nil {
		return nil, err
	}
	storageUnits, err := s.resolvePurchase(ctx, author.ID, in.StorageUnitsTxID, domain.TxPayPerPostStorage)
	if err != nil {
		return nil, err
	}
	monetizeUnits, err := s.resolvePurchase(ctx, author.ID, in.MonetizeTxID, domain.TxPayPerPostMonetize)
	if err != nil {
		return nil, err
	}

	var attachmentBytes int64
	for _, a := range in.Attachments {
		attachmentBytes += int64(len(a.Data))
	}

	pctx := policy.Context{
		BaseTier:          author.Tier,
		ExtraCharUnits:    charUnits,
		ExtraStorageUnits: storageUnits,
		MonetizeUnlocked:  monetizeUnits > 0,
	}
	violation, err := policy.ValidatePost(pctx, in.Content, attachmentBytes, in.MonetizeType)
	if err != nil {
		return nil, err
	}
	if violation != nil {
		return nil, violation
	}

	idea := &domain.Idea{
		ID:               uuid.NewString(),
		AuthorID:         author.ID,
		GenreID:          genre.ID,
		Category:         genre.Category,
		Content:          in.Content,
		CharCount:        utf8.RuneCountInString(in.Content),
		IsPublic:         in.IsPublic,
		MonetizeType:     in.MonetizeType,
		ExtraCharsPaid:   charUnits,
		ExtraStoragePaid: storageUnits,
		MonetizePaid:     monetizeUnits > 0,
	}
	if in.MonetizeType == domain.MonetizeMoney {
		idea.AskingPrice = in.AskingPrice
	}
	if in.MonetizeType == domain.MonetizeProfitShare {
		idea.ProfitSharePct = in.ProfitSharePct
	}
	if in.MonetizeType == domain.MonetizeShareholding {
		idea.ShareHoldingPct = in.ShareHoldingPct
	}

	if err := repo.CreateIdea(ctx, s.DB, idea); err != nil {
		return nil, err
	}

	for _, a := range in.Attachments {
		res, err := s.Uploader.Upload(ctx, a.Data, a.FileName, "ideas/"+idea.ID)
		if err != nil {
			log.Warn().Err(err).Str("idea_id", idea.ID).Str("file", a.FileName).Msg("attachment upload failed, skipped")
			continue
		}
		att := &domain.Attachment{
			ID:       uuid.NewString(),
			IdeaID:   idea.ID,
			FileName: a.FileName,
			FileType: a.FileType,
			FileSize: int64(len(a.Data)),
			FileURL:  res.URL,
			RemoteID: res.RemoteID,
		}
		if err := repo.CreateAttachment(ctx, s.DB, att); err != nil {
			log.Warn().Err(err).Str("idea_id", idea.ID).Msg("attachment row insert failed")
			continue
		}
		idea.Attachments = append(idea.Attachments, *att)
	}

	idea.Genre = *genre
	return idea, nil
}

// Get returns one idea with viewer flags, incrementing its view counter.
// viewerID may be empty for anonymous reads.
func (s *IdeaService) Get(ctx context.Context, ideaID, viewerID string) (*IdeaView, error) {
	tr := otel.Tracer("services/IdeaService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("idea.id", ideaID)),
	)
	defer span.End()

	idea, err := repo.GetIdea(ctx, s.DB, ideaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	if !idea.IsPublic && idea.AuthorID != viewerID {
		return nil, ErrIdeaNotFound
	}

	if err := repo.IncrementViews(ctx, s.DB, ideaID); err != nil {
		log.Warn().Err(err).Str("idea_id", ideaID).Msg("view increment failed")
	} else {
		idea.ViewCount++
	}

	return s.decorate(ctx, idea, viewerID)
}

// Update rewrites the content of an owned idea. Length is re-validated
// against the author's current limits plus the allowances already bound
// to the post. Monetization fields are immutable after creation.
func (s *IdeaService) Update(ctx context.Context, actor *domain.User, ideaID, content string) (*domain.Idea, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	idea, err := repo.GetIdea(ctx, s.DB, ideaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	if idea.AuthorID != actor.ID {
		return nil, ErrNotOwner
	}

	pctx := policy.Context{
		BaseTier:          actor.Tier,
		ExtraCharUnits:    idea.ExtraCharsPaid,
		ExtraStorageUnits: idea.ExtraStoragePaid,
		MonetizeUnlocked:  idea.MonetizePaid,
	}
	violation, err := policy.ValidatePost(pctx, content, 0, domain.MonetizeNone)
	if err != nil {
		return nil, err
	}
	if violation != nil {
		return nil, violation
	}

	if err := repo.UpdateIdeaContent(ctx, s.DB, ideaID, content, utf8.RuneCountInString(content)); err != nil {
		return nil, err
	}
	idea.Content = content
	idea.CharCount = utf8.RuneCountInString(content)
	return idea, nil
}

// Delete removes an owned idea. Remote attachment files are deleted
// best-effort after the row is gone.
func (s *IdeaService) Delete(ctx context.Context, actorID, ideaID string) error {
	idea, err := repo.GetIdea(ctx, s.DB, ideaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrIdeaNotFound
		}
		return err
	}
	if idea.AuthorID != actorID {
		return ErrNotOwner
	}

	atts, err := repo.ListAttachments(ctx, s.DB, ideaID)
	if err != nil {
		return err
	}
	if err := repo.DeleteIdea(ctx, s.DB, ideaID); err != nil {
		return err
	}
	for _, a := range atts {
		if a.RemoteID == "" {
			continue
		}
		if err := s.Uploader.Delete(ctx, a.RemoteID); err != nil {
			log.Warn().Err(err).Str("idea_id", ideaID).Str("remote_id", a.RemoteID).Msg("remote attachment delete failed")
		}
	}
	return nil
}

// Feed returns a page of public ideas. When the viewer is authenticated,
// has onboarded genres, and passed no explicit category/genre filter, the
// feed narrows to their genres.
func (s *IdeaService) Feed(ctx context.Context, viewerID string, q FeedQuery) ([]IdeaView, int64, error) {
	tr := otel.Tracer("services/IdeaService")
	ctx, span := tr.Start(ctx, "Feed",
		trace.WithAttributes(
			attribute.Int("page", q.Page),
			attribute.Int("limit", q.Limit),
			attribute.String("sort", q.Sort),
		),
	)
	defer span.End()

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 50 {
		q.Limit = 10
	}
	offset := (q.Page - 1) * q.Limit

	f := repo.IdeaFilter{
		Category:     q.Category,
		GenreID:      q.GenreID,
		MonetizeType: domain.MonetizeType(q.MonetizeType),
		SortPopular:  q.Sort == "popular",
	}
	if viewerID != "" && q.Category == "" && q.GenreID == "" {
		ids, err := repo.UserGenreIDs(ctx, s.DB, viewerID)
		if err != nil {
			return nil, 0, err
		}
		f.GenreIDs = ids
	}

	ideas, total, err := repo.ListIdeasPage(ctx, s.DB, f, offset, q.Limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorateAll(ctx, ideas, viewerID)
	return views, total, err
}

// Search matches a case-insensitive substring against idea content and
// author display fields. No personalization is applied.
func (s *IdeaService) Search(ctx context.Context, viewerID, query string, page, limit int) ([]IdeaView, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []IdeaView{}, 0, nil
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	ideas, total, err := repo.SearchIdeas(ctx, s.DB, query, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorateAll(ctx, ideas, viewerID)
	return views, total, err
}

// ToggleLike flips the viewer's like on an idea and reports the new
// state. Liking someone else's idea notifies its author.
func (s *IdeaService) ToggleLike(ctx context.Context, userID, ideaID string) (liked bool, err error) {
	idea, err := repo.GetIdea(ctx, s.DB, ideaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrIdeaNotFound
		}
		return false, err
	}

	existing, err := repo.GetLike(ctx, s.DB, userID, ideaID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return false, err
	}
	if existing != nil {
		if err := repo.DeleteLike(ctx, s.DB, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := repo.CreateLike(ctx, s.DB, userID, ideaID); err != nil {
		return false, err
	}
	if idea.AuthorID != userID {
		s.notify(ctx, domain.Notification{
			Type:        domain.NotifyLike,
			RecipientID: idea.AuthorID,
			SenderID:    &userID,
			IdeaID:      &ideaID,
			Message:     "Someone liked your idea.",
		})
	}
	return true, nil
}

// ToggleBookmark flips the viewer's bookmark on an idea and reports the
// new state. Bookmarks are private, so no notification fires.
func (s *IdeaService) ToggleBookmark(ctx context.Context, userID, ideaID string) (bookmarked bool, err error) {
	if _, err := repo.GetIdea(ctx, s.DB, ideaID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrIdeaNotFound
		}
		return false, err
	}

	existing, err := repo.GetBookmark(ctx, s.DB, userID, ideaID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return false, err
	}
	if existing != nil {
		if err := repo.DeleteBookmark(ctx, s.DB, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := repo.CreateBookmark(ctx, s.DB, userID, ideaID); err != nil {
		return false, err
	}
	return true, nil
}

// Comment adds a comment or a reply to an idea and notifies its author.
func (s *IdeaService) Comment(ctx context.Context, userID, ideaID, content string, parentID *string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > s.MaxCommentRunes {
		content = string([]rune(content)[:s.MaxCommentRunes])
	}

	idea, err := repo.GetIdea(ctx, s.DB, ideaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}

	if parentID != nil {
		var parent domain.Comment
		err := s.DB.WithContext(ctx).Where("id = ? AND idea_id = ?", *parentID, ideaID).First(&parent).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		// One level of nesting: replying to a reply attaches to its root.
		if parent.ParentID != nil {
			parentID = parent.ParentID
		}
	}

	c, err := repo.CreateComment(ctx, s.DB, ideaID, userID, content, parentID)
	if err != nil {
		return nil, err
	}
	if idea.AuthorID != userID {
		s.notify(ctx, domain.Notification{
			Type:        domain.NotifyComment,
			RecipientID: idea.AuthorID,
			SenderID:    &userID,
			IdeaID:      &ideaID,
			Message:     "New comment on your idea.",
		})
	}
	return c, nil
}

// Comments returns top-level comments for an idea with their replies.
func (s *IdeaService) Comments(ctx context.Context, ideaID string) ([]CommentThread, error) {
	if _, err := repo.GetIdea(ctx, s.DB, ideaID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}

	top, err := repo.ListComments(ctx, s.DB, ideaID)
	if err != nil {
		return nil, err
	}
	out := make([]CommentThread, 0, len(top))
	for _, c := range top {
		replies, err := repo.ListReplies(ctx, s.DB, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, CommentThread{Comment: c, Replies: replies})
	}
	return out, nil
}

// CommentThread is a top-level comment with its replies.
type CommentThread struct {
	domain.Comment
	Replies []domain.Comment `json:"replies"`
}

// Bookmarked lists the viewer's bookmarked ideas, newest bookmark first.
func (s *IdeaService) Bookmarked(ctx context.Context, userID string, page, limit int) ([]IdeaView, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	ideas, total, err := repo.ListBookmarkedIdeasPage(ctx, s.DB, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorateAll(ctx, ideas, userID)
	return views, total, err
}

// ByAuthor lists a creator's public ideas (all of them for the owner).
func (s *IdeaService) ByAuthor(ctx context.Context, authorID, viewerID string, page, limit int) ([]IdeaView, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	f := repo.IdeaFilter{AuthorID: authorID, IncludePrivate: authorID == viewerID}
	ideas, total, err := repo.ListIdeasPage(ctx, s.DB, f, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorateAll(ctx, ideas, viewerID)
	return views, total, err
}

// resolvePurchase validates a referenced pay-per-post transaction and
// returns its unit count. A transaction must belong to the buyer, be
// COMPLETED, and match the expected type. The unlock purchase reports one
// unit.
func (s *IdeaService) resolvePurchase(ctx context.Context, userID, txID string, want domain.TxType) (int, error) {
	if txID == "" {
		return 0, nil
	}
	tx, err := repo.GetTransaction(ctx, s.DB, txID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrTransactionNotFound
		}
		return 0, err
	}
	if tx.UserID != userID || tx.Type != want || tx.Status != domain.TxCompleted {
		return 0, ErrTransactionNotFound
	}
	switch want {
	case domain.TxPayPerPostChars:
		return tx.MetaCharUnits, nil
	case domain.TxPayPerPostStorage:
		return tx.MetaStorageUnits, nil
	default:
		return 1, nil
	}
}

// decorate builds the viewer projection of one idea.
func (s *IdeaService) decorate(ctx context.Context, idea *domain.Idea, viewerID string) (*IdeaView, error) {
	likes, comments, bookmarks, interests, err := repo.IdeaCounts(ctx, s.DB, idea.ID)
	if err != nil {
		return nil, err
	}

	v := &IdeaView{
		Idea:        *idea,
		LikeCount:   likes,
		CommentsNum: comments,
		Bookmarks:   bookmarks,
		Interests:   interests,
		IsOwner:     viewerID != "" && idea.AuthorID == viewerID,
	}

	author, err := repo.GetUser(ctx, s.DB, idea.AuthorID)
	if err == nil {
		v.Author = author.Public()
	}

	if viewerID != "" {
		if l, err := repo.GetLike(ctx, s.DB, viewerID, idea.ID); err == nil && l != nil {
			v.IsLiked = true
		}
		if b, err := repo.GetBookmark(ctx, s.DB, viewerID, idea.ID); err == nil && b != nil {
			v.IsBookmark = true
		}
	}
	return v, nil
}

func (s *IdeaService) decorateAll(ctx context.Context, ideas []domain.Idea, viewerID string) ([]IdeaView, error) {
	out := make([]IdeaView, 0, len(ideas))
	for i := range ideas {
		v, err := s.decorate(ctx, &ideas[i], viewerID)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// notify inserts a notification, logging instead of failing the caller.
func (s *IdeaService) notify(ctx context.Context, n domain.Notification) {
	n.ID = uuid.NewString()
	if err := repo.CreateNotification(ctx, s.DB, &n); err != nil {
		log.Warn().Err(err).Str("recipient", n.RecipientID).Str("type", string(n.Type)).Msg("notification insert failed")
	}
}
