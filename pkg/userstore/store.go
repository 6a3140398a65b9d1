package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/optimahq/optima/pkg/user"
)

// ErrUserNotFound is returned when a user lookup finds no matching record.
var ErrUserNotFound = errors.New("user not found")

// ErrCodeNotFound is returned when a referral code lookup finds no matching record.
var ErrCodeNotFound = errors.New("referral code not found")

// ErrAdminNotFound is returned when an admin lookup finds no matching record.
var ErrAdminNotFound = errors.New("admin not found")

// StatusCounts summarizes the user base for the admin dashboard.
type StatusCounts struct {
	Total   int
	Pending int
	Active  int
	Banned  int
}

// Store defines the interface for user identity persistence
type Store interface {
	ReferralCodeStore
	AdminStore
	CreateUser(ctx context.Context, usr *user.User) error
	GetUser(ctx context.Context, opts ...QueryOption) (*user.User, error)
	UserExists(ctx context.Context, opts ...QueryOption) (bool, error)
	// UpdateUser persists the mutable user fields, keyed by username.
	UpdateUser(ctx context.Context, usr *user.User) error
	UpdateStatus(ctx context.Context, username string, status user.Status) error
	ListUsers(ctx context.Context) ([]*user.User, error)
	CountByStatus(ctx context.Context) (*StatusCounts, error)
	// CountCreatedSince counts registrations at or after the cutoff.
	CountCreatedSince(ctx context.Context, cutoff time.Time) (int, error)
	DeleteUser(ctx context.Context, username string) error
}

// ReferralCodeStore defines the interface for referral code persistence
type ReferralCodeStore interface {
	CreateReferralCode(ctx context.Context, code *user.ReferralCode) error
	GetReferralCode(ctx context.Context, code string) (*user.ReferralCode, error)
	MarkReferralCodeUsed(ctx context.Context, code string) error
	ListReferralCodes(ctx context.Context) ([]*user.ReferralCode, error)
	DeleteReferralCode(ctx context.Context, id int64) error
}

// AdminStore defines the interface for admin account persistence
type AdminStore interface {
	GetAdmin(ctx context.Context, username string) (*user.Admin, error)
	CreateAdmin(ctx context.Context, adm *user.Admin) error
}

// QueryOptions defines options for querying users
type QueryOptions struct {
	Username        *string
	Email           *string
	PhoneNumber     *string
	UsernameOrEmail *string
	InvitationCode  *string
}

// QueryOption is a functional option for querying users
type QueryOption func(*QueryOptions)

// WithUsername sets the username filter
func WithUsername(username string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Username = &username
	}
}

// WithEmail sets the email filter
func WithEmail(email string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Email = &email
	}
}

// WithPhoneNumber sets the phone number filter
func WithPhoneNumber(phoneNumber string) QueryOption {
	return func(opts *QueryOptions) {
		opts.PhoneNumber = &phoneNumber
	}
}

// WithUsernameOrEmail matches either the username or the email column,
// used by the login flow.
func WithUsernameOrEmail(identifier string) QueryOption {
	return func(opts *QueryOptions) {
		opts.UsernameOrEmail = &identifier
	}
}

// WithInvitationCode sets the invitation code filter
func WithInvitationCode(code string) QueryOption {
	return func(opts *QueryOptions) {
		opts.InvitationCode = &code
	}
}
