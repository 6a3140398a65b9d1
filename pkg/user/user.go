// Package user defines platform identities: end users, their referral codes
// and admin operators.
package user

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Status is the review state of a user account. Only active users may log in
// or submit optimizations.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusBanned  Status = "banned"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusBanned:
		return true
	}
	return false
}

// Restricted reports whether the status blocks balance-affecting operations.
func (s Status) Restricted() bool {
	return s == StatusPending || s == StatusBanned
}

// Gender values accepted at registration.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// ValidGender reports whether g is an accepted gender value.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// User is a registered platform identity. Both passwords are bcrypt hashes.
type User struct {
	Username           string
	Email              string
	PhoneNumber        string
	LoginPassword      string
	WithdrawalPassword string
	Gender             string
	InvitationCode     string
	Status             Status
	ReferredBy         string
	AgreedToTerms      bool
	CreatedAt          time.Time
}

// ReferralCode is a single-use registration code.
type ReferralCode struct {
	ID        int64
	Code      string
	Used      bool
	CreatedBy string
	CreatedAt time.Time
}

// Admin is an operator account for the admin surface.
type Admin struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewInvitationCode generates a 7-character invitation code from an alphabet
// without easily confused characters.
func NewInvitationCode() (string, error) {
	code := make([]byte, 7)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
