package userstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/optimahq/optima/pkg/user"
)

// UserDao is a data access object that maps directly to the 'users' table in PostgreSQL.
type UserDao struct {
	bun.BaseModel      `bun:"table:users,alias:u"`
	ID                 int64     `bun:"id,pk,autoincrement"`
	Username           string    `bun:"username,unique,notnull,type:varchar(64)"`
	Email              string    `bun:"email,unique,notnull,type:varchar(255)"`
	PhoneNumber        string    `bun:"phone_number,unique,notnull,type:varchar(32)"`
	LoginPassword      string    `bun:"login_password,notnull,type:varchar(128)"`
	WithdrawalPassword string    `bun:"withdrawal_password,notnull,type:varchar(128)"`
	Gender             string    `bun:"gender,notnull,type:varchar(8)"`
	InvitationCode     string    `bun:"invitation_code,unique,notnull,type:varchar(16)"`
	Status             string    `bun:"status,notnull,type:varchar(16),default:'pending'"`
	ReferredBy         string    `bun:"referred_by,notnull,type:varchar(16)"`
	AgreedToTerms      bool      `bun:"agreed_to_terms,notnull,default:false"`
	CreatedAt          time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// ReferralCodeDao is a data access object that maps directly to the 'referral_codes' table in PostgreSQL.
type ReferralCodeDao struct {
	bun.BaseModel `bun:"table:referral_codes,alias:rc"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Code          string    `bun:"code,unique,notnull,type:varchar(16)"`
	Used          bool      `bun:"used,notnull,default:false"`
	CreatedBy     string    `bun:"created_by,type:varchar(64)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// AdminDao is a data access object that maps directly to the 'admins' table in PostgreSQL.
type AdminDao struct {
	bun.BaseModel `bun:"table:admins,alias:ad"`
	Username      string    `bun:"username,pk,type:varchar(64)"`
	PasswordHash  string    `bun:"password_hash,notnull,type:varchar(128)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// toUserDao converts a user.User to UserDao.
func toUserDao(usr *user.User) *UserDao {
	return &UserDao{
		Username:           usr.Username,
		Email:              usr.Email,
		PhoneNumber:        usr.PhoneNumber,
		LoginPassword:      usr.LoginPassword,
		WithdrawalPassword: usr.WithdrawalPassword,
		Gender:             usr.Gender,
		InvitationCode:     usr.InvitationCode,
		Status:             string(usr.Status),
		ReferredBy:         usr.ReferredBy,
		AgreedToTerms:      usr.AgreedToTerms,
		CreatedAt:          usr.CreatedAt,
	}
}

// toUser converts a UserDao to user.User.
func toUser(dao *UserDao) *user.User {
	return &user.User{
		Username:           dao.Username,
		Email:              dao.Email,
		PhoneNumber:        dao.PhoneNumber,
		LoginPassword:      dao.LoginPassword,
		WithdrawalPassword: dao.WithdrawalPassword,
		Gender:             dao.Gender,
		InvitationCode:     dao.InvitationCode,
		Status:             user.Status(dao.Status),
		ReferredBy:         dao.ReferredBy,
		AgreedToTerms:      dao.AgreedToTerms,
		CreatedAt:          dao.CreatedAt,
	}
}

func toReferralCodeDao(code *user.ReferralCode) *ReferralCodeDao {
	return &ReferralCodeDao{
		ID:        code.ID,
		Code:      code.Code,
		Used:      code.Used,
		CreatedBy: code.CreatedBy,
		CreatedAt: code.CreatedAt,
	}
}

func toReferralCode(dao *ReferralCodeDao) *user.ReferralCode {
	return &user.ReferralCode{
		ID:        dao.ID,
		Code:      dao.Code,
		Used:      dao.Used,
		CreatedBy: dao.CreatedBy,
		CreatedAt: dao.CreatedAt,
	}
}
