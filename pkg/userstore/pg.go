package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/optimahq/optima/pkg/user"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the user store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateUser(ctx context.Context, usr *user.User) error {
	dao := toUserDao(usr)

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func applyOptions(query *bun.SelectQuery, opts ...QueryOption) *bun.SelectQuery {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Username != nil {
		query = query.Where("username = ?", *options.Username)
	}
	if options.Email != nil {
		query = query.Where("email = ?", *options.Email)
	}
	if options.PhoneNumber != nil {
		query = query.Where("phone_number = ?", *options.PhoneNumber)
	}
	if options.UsernameOrEmail != nil {
		query = query.Where("(username = ? OR email = ?)", *options.UsernameOrEmail, *options.UsernameOrEmail)
	}
	if options.InvitationCode != nil {
		query = query.Where("invitation_code = ?", *options.InvitationCode)
	}

	return query
}

func (s *pgStore) GetUser(ctx context.Context, opts ...QueryOption) (*user.User, error) {
	dao := new(UserDao)
	query := applyOptions(s.db.NewSelect().Model(dao), opts...)

	err := query.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUser(dao), nil
}

func (s *pgStore) UserExists(ctx context.Context, opts ...QueryOption) (bool, error) {
	query := applyOptions(s.db.NewSelect().Model((*UserDao)(nil)), opts...)

	exists, err := query.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check user exists: %w", err)
	}
	return exists, nil
}

func (s *pgStore) UpdateUser(ctx context.Context, usr *user.User) error {
	dao := toUserDao(usr)

	res, err := s.db.NewUpdate().
		Model(dao).
		Set("email = ?", dao.Email).
		Set("phone_number = ?", dao.PhoneNumber).
		Set("login_password = ?", dao.LoginPassword).
		Set("withdrawal_password = ?", dao.WithdrawalPassword).
		Set("status = ?", dao.Status).
		Where("username = ?", dao.Username).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (s *pgStore) UpdateStatus(ctx context.Context, username string, status user.Status) error {
	res, err := s.db.NewUpdate().
		Model((*UserDao)(nil)).
		Set("status = ?", string(status)).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (s *pgStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	var daos []UserDao

	err := s.db.NewSelect().
		Model(&daos).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*user.User, 0, len(daos))
	for i := range daos {
		users = append(users, toUser(&daos[i]))
	}
	return users, nil
}

func (s *pgStore) CountByStatus(ctx context.Context) (*StatusCounts, error) {
	var rows []struct {
		Status string `bun:"status"`
		Count  int    `bun:"count"`
	}

	err := s.db.NewSelect().
		Model((*UserDao)(nil)).
		ColumnExpr("status").
		ColumnExpr("COUNT(*) AS count").
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by status: %w", err)
	}

	counts := &StatusCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		switch user.Status(row.Status) {
		case user.StatusPending:
			counts.Pending = row.Count
		case user.StatusActive:
			counts.Active = row.Count
		case user.StatusBanned:
			counts.Banned = row.Count
		}
	}
	return counts, nil
}

func (s *pgStore) CountCreatedSince(ctx context.Context, cutoff time.Time) (int, error) {
	count, err := s.db.NewSelect().
		Model((*UserDao)(nil)).
		Where("created_at >= ?", cutoff).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent users: %w", err)
	}
	return count, nil
}

func (s *pgStore) DeleteUser(ctx context.Context, username string) error {
	_, err := s.db.NewDelete().
		Model((*UserDao)(nil)).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *pgStore) CreateReferralCode(ctx context.Context, code *user.ReferralCode) error {
	dao := toReferralCodeDao(code)
	dao.ID = 0

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create referral code: %w", err)
	}

	code.ID = dao.ID
	return nil
}

func (s *pgStore) GetReferralCode(ctx context.Context, code string) (*user.ReferralCode, error) {
	dao := new(ReferralCodeDao)

	err := s.db.NewSelect().
		Model(dao).
		Where("code = ?", code).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to get referral code: %w", err)
	}

	return toReferralCode(dao), nil
}

func (s *pgStore) MarkReferralCodeUsed(ctx context.Context, code string) error {
	res, err := s.db.NewUpdate().
		Model((*ReferralCodeDao)(nil)).
		Set("used = TRUE").
		Where("code = ?", code).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark referral code used: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrCodeNotFound
	}

	return nil
}

func (s *pgStore) ListReferralCodes(ctx context.Context) ([]*user.ReferralCode, error) {
	var daos []ReferralCodeDao

	err := s.db.NewSelect().
		Model(&daos).
		Order("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list referral codes: %w", err)
	}

	codes := make([]*user.ReferralCode, 0, len(daos))
	for i := range daos {
		codes = append(codes, toReferralCode(&daos[i]))
	}
	return codes, nil
}

func (s *pgStore) DeleteReferralCode(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().
		Model((*ReferralCodeDao)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete referral code: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return ErrCodeNotFound
	}

	return nil
}

func (s *pgStore) GetAdmin(ctx context.Context, username string) (*user.Admin, error) {
	dao := new(AdminDao)

	err := s.db.NewSelect().
		Model(dao).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &user.Admin{
		Username:     dao.Username,
		PasswordHash: dao.PasswordHash,
		CreatedAt:    dao.CreatedAt,
	}, nil
}

func (s *pgStore) CreateAdmin(ctx context.Context, adm *user.Admin) error {
	dao := &AdminDao{
		Username:     adm.Username,
		PasswordHash: adm.PasswordHash,
		CreatedAt:    adm.CreatedAt,
	}

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}
