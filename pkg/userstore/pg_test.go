package userstore

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/optimahq/optima/pkg/pgutil"
	mghelper "github.com/optimahq/optima/pkg/pgutil/migrations"
	"github.com/optimahq/optima/pkg/user"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()
	requireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &UserDao{}, &ReferralCodeDao{}, &AdminDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return ctx, NewStore(db)
}

func requireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}

	for _, sock := range candidates {
		if sock == "" {
			continue
		}
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed userstore tests")
}

func newTestUser(username, email, phone, code string) *user.User {
	return &user.User{
		Username:           username,
		Email:              email,
		PhoneNumber:        phone,
		LoginPassword:      "bcrypt-login-hash",
		WithdrawalPassword: "bcrypt-withdrawal-hash",
		Gender:             user.GenderOther,
		InvitationCode:     code,
		Status:             user.StatusActive,
		ReferredBy:         "TYLX98M",
		AgreedToTerms:      true,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	ctx, store := setupStore(t)

	usr := newTestUser("alice", "alice@example.com", "+15550001", "AAAA111")
	if err := store.CreateUser(ctx, usr); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	got, err := store.GetUser(ctx, WithUsername("alice"))
	if err != nil {
		t.Fatalf("failed to get user: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("unexpected email: %s", got.Email)
	}
	if got.Status != user.StatusActive {
		t.Fatalf("unexpected status: %s", got.Status)
	}

	got, err = store.GetUser(ctx, WithUsernameOrEmail("alice@example.com"))
	if err != nil {
		t.Fatalf("failed to get user by email identifier: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected username: %s", got.Username)
	}

	got, err = store.GetUser(ctx, WithInvitationCode("AAAA111"))
	if err != nil {
		t.Fatalf("failed to get user by invitation code: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected username: %s", got.Username)
	}
}

func TestGetUserNotFound(t *testing.T) {
	ctx, store := setupStore(t)

	_, err := store.GetUser(ctx, WithUsername("nobody"))
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserExists(t *testing.T) {
	ctx, store := setupStore(t)

	usr := newTestUser("bob", "bob@example.com", "+15550002", "BBBB222")
	if err := store.CreateUser(ctx, usr); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	exists, err := store.UserExists(ctx, WithPhoneNumber("+15550002"))
	if err != nil {
		t.Fatalf("failed to check user exists: %v", err)
	}
	if !exists {
		t.Fatalf("expected user to exist")
	}

	exists, err = store.UserExists(ctx, WithEmail("other@example.com"))
	if err != nil {
		t.Fatalf("failed to check user exists: %v", err)
	}
	if exists {
		t.Fatalf("expected no user")
	}
}

func TestUpdateUserAndStatus(t *testing.T) {
	ctx, store := setupStore(t)

	usr := newTestUser("carol", "carol@example.com", "+15550003", "CCCC333")
	if err := store.CreateUser(ctx, usr); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	usr.LoginPassword = "new-bcrypt-hash"
	if err := store.UpdateUser(ctx, usr); err != nil {
		t.Fatalf("failed to update user: %v", err)
	}

	if err := store.UpdateStatus(ctx, "carol", user.StatusBanned); err != nil {
		t.Fatalf("failed to update status: %v", err)
	}

	got, err := store.GetUser(ctx, WithUsername("carol"))
	if err != nil {
		t.Fatalf("failed to get user: %v", err)
	}
	if got.LoginPassword != "new-bcrypt-hash" {
		t.Fatalf("expected updated password hash, got %s", got.LoginPassword)
	}
	if got.Status != user.StatusBanned {
		t.Fatalf("expected banned status, got %s", got.Status)
	}

	if err := store.UpdateStatus(ctx, "ghost", user.StatusActive); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCountByStatus(t *testing.T) {
	ctx, store := setupStore(t)

	users := []*user.User{
		newTestUser("u1", "u1@example.com", "+15550011", "UUUU111"),
		newTestUser("u2", "u2@example.com", "+15550012", "UUUU222"),
		newTestUser("u3", "u3@example.com", "+15550013", "UUUU333"),
	}
	users[1].Status = user.StatusPending
	users[2].Status = user.StatusBanned
	for _, usr := range users {
		if err := store.CreateUser(ctx, usr); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}

	counts, err := store.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if counts.Total != 3 || counts.Active != 1 || counts.Pending != 1 || counts.Banned != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestCountCreatedSince(t *testing.T) {
	ctx, store := setupStore(t)

	usr := newTestUser("dave", "dave@example.com", "+15550004", "DDDD444")
	if err := store.CreateUser(ctx, usr); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	count, err := store.CountCreatedSince(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("failed to count recent users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 recent user, got %d", count)
	}

	count, err = store.CountCreatedSince(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to count recent users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 recent users, got %d", count)
	}
}

func TestReferralCodeLifecycle(t *testing.T) {
	ctx, store := setupStore(t)

	code := &user.ReferralCode{Code: "ZZZZ999", CreatedBy: "admin"}
	if err := store.CreateReferralCode(ctx, code); err != nil {
		t.Fatalf("failed to create referral code: %v", err)
	}
	if code.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := store.GetReferralCode(ctx, "ZZZZ999")
	if err != nil {
		t.Fatalf("failed to get referral code: %v", err)
	}
	if got.Used {
		t.Fatalf("expected unused code")
	}

	if err := store.MarkReferralCodeUsed(ctx, "ZZZZ999"); err != nil {
		t.Fatalf("failed to mark code used: %v", err)
	}
	got, err = store.GetReferralCode(ctx, "ZZZZ999")
	if err != nil {
		t.Fatalf("failed to get referral code: %v", err)
	}
	if !got.Used {
		t.Fatalf("expected used code")
	}

	codes, err := store.ListReferralCodes(ctx)
	if err != nil {
		t.Fatalf("failed to list referral codes: %v", err)
	}
	if len(codes) != 1 {
		t.Fatalf("expected 1 code, got %d", len(codes))
	}

	if err := store.DeleteReferralCode(ctx, code.ID); err != nil {
		t.Fatalf("failed to delete referral code: %v", err)
	}
	if _, err := store.GetReferralCode(ctx, "ZZZZ999"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}
}

func TestAdminAccounts(t *testing.T) {
	ctx, store := setupStore(t)

	_, err := store.GetAdmin(ctx, "root")
	if !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound, got %v", err)
	}

	if err := store.CreateAdmin(ctx, &user.Admin{Username: "root", PasswordHash: "bcrypt-hash"}); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	adm, err := store.GetAdmin(ctx, "root")
	if err != nil {
		t.Fatalf("failed to get admin: %v", err)
	}
	if adm.PasswordHash != "bcrypt-hash" {
		t.Fatalf("unexpected password hash: %s", adm.PasswordHash)
	}
}

func TestDeleteUser(t *testing.T) {
	ctx, store := setupStore(t)

	usr := newTestUser("erin", "erin@example.com", "+15550005", "EEEE555")
	if err := store.CreateUser(ctx, usr); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if err := store.DeleteUser(ctx, "erin"); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}

	_, err := store.GetUser(ctx, WithUsername("erin"))
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
}
