package pets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrap_StoredConfigWins(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})
	ctx := context.Background()

	_, err := svc.TransferAdmin(ctx, adminID, "admin-2")
	require.NoError(t, err)

	cfg, err := svc.Bootstrap(ctx, Config{Admin: adminID})
	require.NoError(t, err)
	require.Equal(t, "admin-2", cfg.Admin)
	require.Equal(t, oracleID, cfg.BattleOracle)
}

func TestBootstrap_Validation(t *testing.T) {
	svc := NewService(newTestRepo(), Options{})
	ctx := context.Background()

	_, err := svc.Bootstrap(ctx, Config{Admin: " "})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Bootstrap(ctx, Config{Admin: adminID, BattleCooldown: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransferAdmin_OldAdminLosesRole(t *testing.T) {
	rec := &recorder{}
	svc, _, _ := newTestService(t, Options{Notifier: rec})
	ctx := context.Background()

	_, err := svc.TransferAdmin(ctx, "user-1", "user-1")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.TransferAdmin(ctx, adminID, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	cfg, err := svc.TransferAdmin(ctx, adminID, "admin-2")
	require.NoError(t, err)
	require.Equal(t, "admin-2", cfg.Admin)

	_, _, err = svc.Create(ctx, adminID, CreateInput{Name: "X"})
	require.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = svc.Create(ctx, "admin-2", CreateInput{Name: "X"})
	require.NoError(t, err)

	last := rec.notes[len(rec.notes)-2]
	require.Equal(t, NotificationConfigUpdated, last.Kind)
	require.Equal(t, "admin-2", last.Fields["admin"])
}

func TestSetBattleOracle(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})
	ctx := context.Background()
	a, _ := mustCreate(t, svc, "A")
	b, _ := mustCreate(t, svc, "B")

	_, err := svc.SetBattleOracle(ctx, oracleID, "oracle-2")
	require.ErrorIs(t, err, ErrUnauthorized)

	cfg, err := svc.SetBattleOracle(ctx, adminID, "oracle-2")
	require.NoError(t, err)
	require.Equal(t, "oracle-2", cfg.BattleOracle)

	_, err = svc.RecordBattle(ctx, oracleID, BattleInput{PetA: a.ID, PetB: b.ID})
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.RecordBattle(ctx, "oracle-2", BattleInput{PetA: a.ID, PetB: b.ID})
	require.NoError(t, err)

	// Sin oracle solo queda el admin.
	_, err = svc.SetBattleOracle(ctx, adminID, "")
	require.NoError(t, err)
	_, err = svc.RecordBattle(ctx, "oracle-2", BattleInput{PetA: a.ID, PetB: b.ID})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestSetBattleCooldown_Validation(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})
	ctx := context.Background()

	_, err := svc.SetBattleCooldown(ctx, adminID, -5)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SetBattleCooldown(ctx, "user-1", 10)
	require.ErrorIs(t, err, ErrUnauthorized)

	cfg, err := svc.SetBattleCooldown(ctx, adminID, 10)
	require.NoError(t, err)
	require.Equal(t, int64(10), cfg.BattleCooldown)
}
