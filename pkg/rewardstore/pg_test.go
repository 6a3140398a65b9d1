package rewardstore

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/optimahq/optima/pkg/pgutil"
	mghelper "github.com/optimahq/optima/pkg/pgutil/migrations"
	"github.com/optimahq/optima/pkg/reward"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()
	requireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &FrozenRewardDao{}, &PendingRewardDao{}); err != nil {
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

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed rewardstore tests")
}

func TestFrozenRewardRoundTrip(t *testing.T) {
	ctx, store := setupStore(t)

	_, err := store.GetFrozenReward(ctx, "alice")
	if !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound, got %v", err)
	}

	rw := &reward.FrozenReward{
		Username:     "alice",
		USDCAmount:   decimal.NewFromInt(7500),
		ProfitAmount: decimal.NewFromInt(800),
	}
	if err := store.UpsertFrozenReward(ctx, rw); err != nil {
		t.Fatalf("failed to upsert frozen reward: %v", err)
	}

	got, err := store.GetFrozenReward(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to get frozen reward: %v", err)
	}
	if !got.USDCAmount.Equal(decimal.NewFromInt(7500)) || !got.ProfitAmount.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected amounts: %s / %s", got.USDCAmount, got.ProfitAmount)
	}
}

func TestFrozenRewardUpsertOverwrites(t *testing.T) {
	ctx, store := setupStore(t)

	first := &reward.FrozenReward{
		Username:     "bob",
		USDCAmount:   decimal.NewFromInt(7500),
		ProfitAmount: decimal.NewFromInt(800),
	}
	if err := store.UpsertFrozenReward(ctx, first); err != nil {
		t.Fatalf("failed to upsert frozen reward: %v", err)
	}

	second := &reward.FrozenReward{
		Username:     "bob",
		USDCAmount:   decimal.NewFromInt(9000),
		ProfitAmount: decimal.NewFromInt(950),
	}
	if err := store.UpsertFrozenReward(ctx, second); err != nil {
		t.Fatalf("failed to upsert frozen reward: %v", err)
	}

	got, err := store.GetFrozenReward(ctx, "bob")
	if err != nil {
		t.Fatalf("failed to get frozen reward: %v", err)
	}
	if !got.USDCAmount.Equal(decimal.NewFromInt(9000)) {
		t.Fatalf("expected overwritten amount 9000, got %s", got.USDCAmount)
	}
}

func TestPendingRewardRoundTrip(t *testing.T) {
	ctx, store := setupStore(t)

	rw := &reward.PendingReward{
		Username:     "carol",
		USDCAmount:   decimal.NewFromInt(1200),
		ProfitAmount: decimal.NewFromInt(400),
	}
	if err := store.UpsertPendingReward(ctx, rw); err != nil {
		t.Fatalf("failed to upsert pending reward: %v", err)
	}

	got, err := store.GetPendingReward(ctx, "carol")
	if err != nil {
		t.Fatalf("failed to get pending reward: %v", err)
	}
	if !got.USDCAmount.Equal(decimal.NewFromInt(1200)) || !got.ProfitAmount.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("unexpected amounts: %s / %s", got.USDCAmount, got.ProfitAmount)
	}
}

func TestDeleteByUsername(t *testing.T) {
	ctx, store := setupStore(t)

	frozen := &reward.FrozenReward{
		Username:     "dave",
		USDCAmount:   decimal.NewFromInt(7500),
		ProfitAmount: decimal.NewFromInt(800),
	}
	if err := store.UpsertFrozenReward(ctx, frozen); err != nil {
		t.Fatalf("failed to upsert frozen reward: %v", err)
	}
	pending := &reward.PendingReward{
		Username:     "dave",
		USDCAmount:   decimal.NewFromInt(1200),
		ProfitAmount: decimal.NewFromInt(400),
	}
	if err := store.UpsertPendingReward(ctx, pending); err != nil {
		t.Fatalf("failed to upsert pending reward: %v", err)
	}

	if err := store.DeleteByUsername(ctx, "dave"); err != nil {
		t.Fatalf("failed to delete rewards: %v", err)
	}

	if _, err := store.GetFrozenReward(ctx, "dave"); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("expected frozen reward gone, got %v", err)
	}
	if _, err := store.GetPendingReward(ctx, "dave"); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("expected pending reward gone, got %v", err)
	}
}
