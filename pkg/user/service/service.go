// Package service implements registration, login and the password reset flow.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/optimahq/optima/internal/metrics"
	"github.com/optimahq/optima/pkg/account"
	apperrors "github.com/optimahq/optima/pkg/app/errors"
	"github.com/optimahq/optima/pkg/auth"
	"github.com/optimahq/optima/pkg/config"
	"github.com/optimahq/optima/pkg/user"
	"github.com/optimahq/optima/pkg/userstore"
)

var (
	// ErrInvalidReferralCode is returned when the supplied referral code is
	// neither the house code, an unused issued code, nor a user's invitation code.
	ErrInvalidReferralCode = errors.New("invalid referral code")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPhoneTaken is returned when the phone number is already registered.
	ErrPhoneTaken = errors.New("phone number already registered")
	// ErrSignupLimitReached is returned when today's registration cap is exhausted.
	ErrSignupLimitReached = errors.New("signup limit reached for today")
	// ErrInvalidCredentials is returned on any authentication failure.
	// Deliberately shared between unknown identity and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive is returned when a non-active user attempts to log in.
	ErrAccountInactive = errors.New("account is not active")
	// ErrResetVerification is returned when username and phone do not match.
	ErrResetVerification = errors.New("reset verification failed")
	// ErrPasswordReuse is returned when a password reset supplies the current password.
	ErrPasswordReuse = errors.New("new password matches the old password")
)

const bcryptCost = 10

// UserStore is the identity persistence the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, usr *user.User) error
	GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
	UserExists(ctx context.Context, opts ...userstore.QueryOption) (bool, error)
	UpdateUser(ctx context.Context, usr *user.User) error
	CountCreatedSince(ctx context.Context, cutoff time.Time) (int, error)
	GetReferralCode(ctx context.Context, code string) (*user.ReferralCode, error)
	MarkReferralCodeUsed(ctx context.Context, code string) error
	GetAdmin(ctx context.Context, username string) (*user.Admin, error)
}

// AccountStore seeds the ledger row for new registrations.
type AccountStore interface {
	Create(ctx context.Context, acct *account.Account) error
}

// SessionIssuer mints session tokens for authenticated users.
type SessionIssuer interface {
	Issue(username, role string) (string, error)
}

// ResetTokenVault holds one-time password-reset tokens.
type ResetTokenVault interface {
	Issue(username string) string
	Consume(token string) (string, error)
}

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	Username           string
	Email              string
	PhoneNumber        string
	LoginPassword      string
	WithdrawalPassword string
	Gender             string
	ReferralCode       string
	AgreedToTerms      bool
}

// AuthResult is a logged-in identity plus its session token.
type AuthResult struct {
	User  *user.User
	Token string
}

// Service defines the interface for identity operations
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	AdminLogin(ctx context.Context, username, password string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, username, phoneNumber string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type userService struct {
	users    UserStore
	accounts AccountStore
	sessions SessionIssuer
	vault    ResetTokenVault
	cfg      *config.BusinessConfig
	logger   *zap.Logger
}

// NewService creates a new identity service
func NewService(
	users UserStore,
	accounts AccountStore,
	sessions SessionIssuer,
	vault ResetTokenVault,
	cfg *config.BusinessConfig,
	logger *zap.Logger,
) Service {
	return &userService{
		users:    users,
		accounts: accounts,
		sessions: sessions,
		vault:    vault,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if err := validateRegisterRequest(req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.BadRequestError(err, err.Error())
	}

	count, err := s.users.CountCreatedSince(ctx, startOfToday())
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to count todays registrations")
	}
	if count >= s.cfg.SignupDailyLimit {
		metrics.RegistrationsTotal.WithLabelValues("signup_limit").Inc()
		return nil, apperrors.ForbiddenError(ErrSignupLimitReached, "registrations are closed for today")
	}

	consumeCode, err := s.verifyReferralCode(ctx, req.ReferralCode)
	if err != nil {
		if errors.Is(err, ErrInvalidReferralCode) {
			metrics.RegistrationsTotal.WithLabelValues("bad_referral").Inc()
			return nil, apperrors.BadRequestError(err, "invalid referral code")
		}
		return nil, apperrors.GeneralError(err, "failed to verify referral code")
	}

	if err := s.checkUniqueness(ctx, req); err != nil {
		if apperrors.IsInternalError(err) {
			return nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return nil, err
	}

	loginHash, err := bcrypt.GenerateFromPassword([]byte(req.LoginPassword), bcryptCost)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to hash login password")
	}
	withdrawalHash, err := bcrypt.GenerateFromPassword([]byte(req.WithdrawalPassword), bcryptCost)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to hash withdrawal password")
	}

	invitationCode, err := s.uniqueInvitationCode(ctx)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to generate invitation code")
	}

	usr := &user.User{
		Username:           req.Username,
		Email:              req.Email,
		PhoneNumber:        req.PhoneNumber,
		LoginPassword:      string(loginHash),
		WithdrawalPassword: string(withdrawalHash),
		Gender:             req.Gender,
		InvitationCode:     invitationCode,
		// New accounts wait for operator approval. Registration still opens a
		// session; a pending user just cannot log back in until activated.
		Status:             user.StatusPending,
		ReferredBy:         req.ReferralCode,
		AgreedToTerms:      req.AgreedToTerms,
	}
	if err := s.users.CreateUser(ctx, usr); err != nil {
		return nil, apperrors.GeneralError(err, "failed to create user")
	}

	if err := s.accounts.Create(ctx, account.New(req.Username, s.cfg.SignupDailyLimit)); err != nil {
		return nil, apperrors.GeneralError(err, "failed to seed account")
	}

	if consumeCode {
		if err := s.users.MarkReferralCodeUsed(ctx, req.ReferralCode); err != nil {
			// The user exists; burning the code is not worth failing the signup.
			s.logger.Warn("failed to mark referral code used",
				zap.String("code", req.ReferralCode),
				zap.Error(err),
			)
		}
	}

	token, err := s.sessions.Issue(usr.Username, auth.RoleUser)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to issue session")
	}

	metrics.RegistrationsTotal.WithLabelValues("accepted").Inc()
	return &AuthResult{User: usr, Token: token}, nil
}

func (s *userService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	usr, err := s.users.GetUser(ctx, userstore.WithUsernameOrEmail(identifier))
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("unknown_identity").Inc()
			return nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "invalid credentials")
		}
		return nil, apperrors.GeneralError(err, "failed to load user")
	}

	if usr.Status != user.StatusActive {
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return nil, apperrors.ForbiddenError(ErrAccountInactive, "account is not active")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.LoginPassword), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "invalid credentials")
	}

	token, err := s.sessions.Issue(usr.Username, auth.RoleUser)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to issue session")
	}

	metrics.LoginsTotal.WithLabelValues("accepted").Inc()
	return &AuthResult{User: usr, Token: token}, nil
}

func (s *userService) AdminLogin(ctx context.Context, username, password string) (*AuthResult, error) {
	adm, err := s.users.GetAdmin(ctx, username)
	if err != nil {
		if errors.Is(err, userstore.ErrAdminNotFound) {
			metrics.LoginsTotal.WithLabelValues("unknown_identity").Inc()
			return nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "invalid credentials")
		}
		return nil, apperrors.GeneralError(err, "failed to load admin")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "invalid credentials")
	}

	token, err := s.sessions.Issue(adm.Username, auth.RoleAdmin)
	if err != nil {
		return nil, apperrors.GeneralError(err, "failed to issue session")
	}

	metrics.LoginsTotal.WithLabelValues("accepted").Inc()
	return &AuthResult{
		User:  &user.User{Username: adm.Username, Status: user.StatusActive},
		Token: token,
	}, nil
}

func (s *userService) ForgotPassword(ctx context.Context, username, phoneNumber string) (string, error) {
	usr, err := s.users.GetUser(ctx, userstore.WithUsername(username))
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return "", apperrors.BadRequestError(ErrResetVerification, "verification failed")
		}
		return "", apperrors.GeneralError(err, "failed to load user")
	}

	if usr.PhoneNumber == "" || usr.PhoneNumber != phoneNumber {
		return "", apperrors.BadRequestError(ErrResetVerification, "verification failed")
	}

	return s.vault.Issue(usr.Username), nil
}

func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.BadRequestError(nil, "password is too short")
	}

	username, err := s.vault.Consume(token)
	if err != nil {
		return apperrors.UnAuthorizedError(err, "invalid or expired reset token")
	}

	usr, err := s.users.GetUser(ctx, userstore.WithUsername(username))
	if err != nil {
		return apperrors.GeneralError(err, "failed to load user")
	}

	if bcrypt.CompareHashAndPassword([]byte(usr.LoginPassword), []byte(newPassword)) == nil {
		return apperrors.BadRequestError(ErrPasswordReuse, "new password must differ from the old one")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return apperrors.GeneralError(err, "failed to hash password")
	}

	usr.LoginPassword = string(hash)
	if err := s.users.UpdateUser(ctx, usr); err != nil {
		return apperrors.GeneralError(err, "failed to update password")
	}

	s.logger.Info("password reset", zap.String("username", username))
	return nil
}

const minPasswordLength = 6

func validateRegisterRequest(req *RegisterRequest) error {
	switch {
	case req.Username == "":
		return errors.New("username is required")
	case req.Email == "":
		return errors.New("email is required")
	case req.PhoneNumber == "":
		return errors.New("phone number is required")
	case len(req.LoginPassword) < minPasswordLength:
		return errors.New("login password is too short")
	case len(req.WithdrawalPassword) < minPasswordLength:
		return errors.New("withdrawal password is too short")
	case !user.ValidGender(req.Gender):
		return errors.New("invalid gender")
	case req.ReferralCode == "":
		return errors.New("referral code is required")
	case !req.AgreedToTerms:
		return errors.New("terms must be accepted")
	}
	return nil
}

// verifyReferralCode checks the code against the house code, the issued
// single-use codes, then any user's invitation code. The second return value
// reports whether the code must be marked used after the signup commits.
func (s *userService) verifyReferralCode(ctx context.Context, code string) (bool, error) {
	if code == s.cfg.HouseReferralCode {
		return false, nil
	}

	issued, err := s.users.GetReferralCode(ctx, code)
	switch {
	case err == nil:
		if issued.Used {
			return false, ErrInvalidReferralCode
		}
		return true, nil
	case !errors.Is(err, userstore.ErrCodeNotFound):
		return false, err
	}

	exists, err := s.users.UserExists(ctx, userstore.WithInvitationCode(code))
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrInvalidReferralCode
	}
	return false, nil
}

func (s *userService) checkUniqueness(ctx context.Context, req *RegisterRequest) error {
	exists, err := s.users.UserExists(ctx, userstore.WithUsername(req.Username))
	if err != nil {
		return apperrors.GeneralError(err, "failed to check username")
	}
	if exists {
		return apperrors.ConflictError(ErrUsernameTaken, "username already taken")
	}

	exists, err = s.users.UserExists(ctx, userstore.WithEmail(req.Email))
	if err != nil {
		return apperrors.GeneralError(err, "failed to check email")
	}
	if exists {
		return apperrors.ConflictError(ErrEmailTaken, "email already registered")
	}

	exists, err = s.users.UserExists(ctx, userstore.WithPhoneNumber(req.PhoneNumber))
	if err != nil {
		return apperrors.GeneralError(err, "failed to check phone number")
	}
	if exists {
		return apperrors.ConflictError(ErrPhoneTaken, "phone number already registered")
	}
	return nil
}

// uniqueInvitationCode draws codes until one is free. Collisions are rare in a
// 32^7 space, so a small retry bound suffices.
func (s *userService) uniqueInvitationCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := user.NewInvitationCode()
		if err != nil {
			return "", err
		}
		exists, err := s.users.UserExists(ctx, userstore.WithInvitationCode(code))
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("exhausted invitation code attempts")
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
