// Package services defines the business logic for accounts, ideas,
// social actions, tiers, payments, and analytics. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrEmailTaken is returned when the signup email already belongs to
	// an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrPhoneTaken is returned when the signup phone number already
	// belongs to an account.
	ErrPhoneTaken = errors.New("phone number already registered")

	// ErrUsernameTaken is returned when the requested username is in use.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials covers both unknown identifier and wrong
	// password so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned for expired, revoked, or malformed
	// refresh and reset tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrSelfFollow is returned when a user attempts to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrWeakPassword is returned when a password fails the minimum
	// strength rules.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidInput is returned for malformed or missing request fields
	// that validation catches before any persistence.
	ErrInvalidInput = errors.New("invalid input")
)

// Idea-related errors.
var (
	// ErrIdeaNotFound indicates that the requested idea does not exist or
	// is not visible to the current user.
	ErrIdeaNotFound = errors.New("idea not found")

	// ErrNotOwner is returned when a user attempts to modify an idea they
	// do not own.
	ErrNotOwner = errors.New("not the owner of this idea")

	// ErrGenreNotFound indicates an unknown genre ID.
	ErrGenreNotFound = errors.New("genre not found")

	// ErrCommentNotFound indicates an unknown parent comment.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrEmptyContent is returned when idea or comment content is blank.
	ErrEmptyContent = errors.New("content is empty")
)

// Interest and commerce errors.
var (
	// ErrSelfInterest is returned when an author expresses interest in
	// their own idea.
	ErrSelfInterest = errors.New("cannot express interest in your own idea")

	// ErrNotMonetized is returned when interest targets an idea with no
	// monetization model.
	ErrNotMonetized = errors.New("idea is not monetized")

	// ErrAlreadySold is returned when interest targets an idea that has
	// already been sold.
	ErrAlreadySold = errors.New("idea has already been sold")

	// ErrTransactionNotFound indicates the referenced transaction does
	// not exist or belongs to another user.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidSignature is returned when gateway payment verification
	// fails.
	ErrInvalidSignature = errors.New("payment signature verification failed")

	// ErrGatewayUnavailable is returned when the payment gateway is not
	// configured or order creation fails.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInvalidUpgrade is returned for upgrade requests that do not move
	// to a higher paid tier.
	ErrInvalidUpgrade = errors.New("invalid tier upgrade")

	// ErrForbidden is returned when the caller lacks the role required by
	// the operation.
	ErrForbidden = errors.New("forbidden")
)

// Conversation errors.
var (
	// ErrConversationNotFound indicates the conversation does not exist
	// or the caller is not a participant.
	ErrConversationNotFound = errors.New("conversation not found")
)
