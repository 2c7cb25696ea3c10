package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"pet-ledger/internal/domain/pets"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "pets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestService(t *testing.T, store *Store) *pets.Service {
	t.Helper()
	svc := pets.NewService(store, pets.Options{ClaimKey: []byte("sqlite-test-key")})
	_, err := svc.Bootstrap(context.Background(), pets.Config{Admin: "admin-1"})
	require.NoError(t, err)
	return svc
}

func TestStore_RoundTripsPetAndConfig(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := pets.Pet{
		ID:           7,
		Name:         "Ember",
		Attribute:    pets.AttributeFire,
		Rarity:       pets.RarityEpic,
		MetadataRef:  "ipfs://meta/7",
		ClaimToken:   "tok-7",
		Level:        3,
		Experience:   250,
		BattleCount:  4,
		BattleWins:   2,
		LastBattleAt: at,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	require.NoError(t, store.Atomic(ctx, func(tx pets.Tx) error {
		if err := tx.Put(ctx, in); err != nil {
			return err
		}
		return tx.SetConfig(ctx, pets.Config{Admin: "admin-1", BattleCooldown: 30, CreationNonce: 9, UpdatedAt: at})
	}))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, in.Name, got.Name)
	require.Equal(t, pets.RarityEpic, got.Rarity)
	require.Equal(t, "tok-7", got.ClaimToken)
	require.Equal(t, uint64(250), got.Experience)
	require.True(t, got.LastBattleAt.Equal(at))
	require.True(t, got.ClaimExpiresAt.IsZero())

	cfg, err := store.Config(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(30), cfg.BattleCooldown)
	require.Equal(t, uint64(9), cfg.CreationNonce)

	_, err = store.Get(ctx, 99)
	require.ErrorIs(t, err, pets.ErrNotFound)
}

func TestStore_KeepsSubMillisecondTimestamps(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	// 0.9999ms después del segundo: truncar a ms adelantaría el fin del cooldown.
	last := time.Date(2026, 3, 1, 12, 0, 0, 999_900, time.UTC)
	expires := last.Add(time.Hour)
	require.NoError(t, store.Atomic(ctx, func(tx pets.Tx) error {
		return tx.Put(ctx, pets.Pet{
			ID:             3,
			Name:           "Quick",
			ClaimToken:     "tok-3",
			ClaimExpiresAt: expires,
			Level:          1,
			LastBattleAt:   last,
			CreatedAt:      last,
			UpdatedAt:      last,
		})
	}))

	got, err := store.Get(ctx, 3)
	require.NoError(t, err)
	require.True(t, got.LastBattleAt.Equal(last), "last battle %s", got.LastBattleAt)
	require.True(t, got.ClaimExpiresAt.Equal(expires), "claim expiry %s", got.ClaimExpiresAt)
	require.True(t, got.CreatedAt.Equal(last))
}

func TestStore_NextIDSurvivesRollback(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	id1, err := store.NextID(ctx)
	require.NoError(t, err)

	errBoom := errors.New("boom")
	err = store.Atomic(ctx, func(tx pets.Tx) error {
		if err := tx.Put(ctx, pets.Pet{ID: id1, Name: "ghost", Level: 1, CreatedAt: time.Now(), UpdatedAt: time.Now()}); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = store.Get(ctx, id1)
	require.ErrorIs(t, err, pets.ErrNotFound)

	id2, err := store.NextID(ctx)
	require.NoError(t, err)
	require.Greater(t, id2, id1)
}

func TestStore_Lifecycle_CreateRedeemBattleEvolve(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	svc := newTestService(t, store)

	pet, token, err := svc.Create(ctx, "admin-1", pets.CreateInput{
		Name:        "Sprout",
		Attribute:   pets.AttributePlant,
		Rarity:      pets.RarityCommon,
		MetadataRef: "ipfs://metadata/5",
	})
	require.NoError(t, err)

	claimed, err := svc.Redeem(ctx, "user-1", token)
	require.NoError(t, err)
	require.True(t, claimed.Claimed)
	require.Empty(t, claimed.ClaimToken)

	for i := 0; i < 10; i++ {
		_, err := svc.RecordBattle(ctx, "admin-1", pets.BattleInput{PetA: pet.ID, PetB: pet.ID, XPA: 300})
		require.NoError(t, err)
	}

	ok, err := svc.CheckEvolution(ctx, pet.ID)
	require.NoError(t, err)
	require.True(t, ok)

	evolved, err := svc.Evolve(ctx, "user-1", pet.ID, pets.EvolveInput{Name: "EvolvedPet", MetadataRef: "ipfs://metadata/evolved"})
	require.NoError(t, err)
	require.Equal(t, pets.RarityUncommon, evolved.Rarity)

	stored, err := store.Get(ctx, pet.ID)
	require.NoError(t, err)
	require.Equal(t, "EvolvedPet", stored.Name)
	require.Equal(t, uint64(3000), stored.Experience)
	require.Equal(t, uint64(31), stored.Level)

	owned, err := store.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
}

func TestStore_ConcurrentRedeem_ExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	svc := newTestService(t, store)

	_, token, err := svc.Create(ctx, "admin-1", pets.CreateInput{Name: "Twin", Attribute: pets.AttributeAir})
	require.NoError(t, err)

	var wins, rejected atomic.Int32
	var g errgroup.Group
	for _, caller := range []string{"user-a", "user-b", "user-c", "user-d"} {
		g.Go(func() error {
			_, err := svc.Redeem(ctx, caller, token)
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, pets.ErrInvalidOrExpiredClaim):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, int32(1), wins.Load())
	require.Equal(t, int32(3), rejected.Load())
}

func TestStore_ExpiredClaimIsClearedAndCanBeReissued(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	svc := pets.NewService(store, pets.Options{ClaimKey: []byte("sqlite-test-key"), ClaimTTL: time.Nanosecond})
	_, err := svc.Bootstrap(ctx, pets.Config{Admin: "admin-1"})
	require.NoError(t, err)

	pet, token, err := svc.Create(ctx, "admin-1", pets.CreateInput{Name: "Late", Attribute: pets.AttributeWater})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	_, err = svc.Redeem(ctx, "user-1", token)
	require.ErrorIs(t, err, pets.ErrInvalidOrExpiredClaim)

	stored, err := store.Get(ctx, pet.ID)
	require.NoError(t, err)
	require.Empty(t, stored.ClaimToken)
	require.True(t, stored.ClaimExpiresAt.IsZero())
	require.False(t, stored.Claimed)

	_, fresh, err := svc.ReissueClaim(ctx, "admin-1", pet.ID)
	require.NoError(t, err)
	require.NotEqual(t, token, fresh)
}
