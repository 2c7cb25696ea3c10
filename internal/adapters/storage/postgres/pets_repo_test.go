package postgres

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"

	"pet-ledger/internal/domain/pets"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Requiere una base descartable: TEST_DB_DSN=postgres://... go test ./internal/adapters/storage/postgres/
func openTestRepo(t *testing.T) *PetsRepo {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS pets, registry_config`,
		`DROP SEQUENCE IF EXISTS pet_id_seq`,
	} {
		_, err = db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	require.NoError(t, EnsureSchema(ctx, db))
	return NewPetsRepo(db)
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE A;\n\n  CREATE B ;;\n")
	require.Equal(t, []string{"CREATE A", "CREATE B"}, got)
}

func TestPetsRepo_ConfigNotFoundBeforeBootstrap(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.Config(context.Background())
	require.ErrorIs(t, err, pets.ErrConfigNotFound)
}

func TestPetsRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	svc := pets.NewService(repo, pets.Options{ClaimKey: []byte("pg-test-key")})
	_, err := svc.Bootstrap(ctx, pets.Config{Admin: "admin-1"})
	require.NoError(t, err)

	pet, token, err := svc.Create(ctx, "admin-1", pets.CreateInput{Name: "Sprout", Attribute: pets.AttributePlant})
	require.NoError(t, err)
	require.Equal(t, pets.ID(1), pet.ID)

	_, err = svc.Redeem(ctx, "user-1", token)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := svc.RecordBattle(ctx, "admin-1", pets.BattleInput{PetA: pet.ID, PetB: pet.ID, XPA: 300})
		require.NoError(t, err)
	}

	evolved, err := svc.Evolve(ctx, "user-1", pet.ID, pets.EvolveInput{Name: "Bloom", MetadataRef: "ipfs://meta/bloom"})
	require.NoError(t, err)
	require.Equal(t, pets.RarityUncommon, evolved.Rarity)

	stored, err := repo.Get(ctx, pet.ID)
	require.NoError(t, err)
	require.Empty(t, stored.ClaimToken)
	require.Equal(t, uint64(3000), stored.Experience)
	require.Equal(t, uint64(20), stored.BattleCount)

	owned, err := repo.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
}

func TestPetsRepo_ConcurrentRedeem_ExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	svc := pets.NewService(repo, pets.Options{ClaimKey: []byte("pg-test-key")})
	_, err := svc.Bootstrap(ctx, pets.Config{Admin: "admin-1"})
	require.NoError(t, err)
	_, token, err := svc.Create(ctx, "admin-1", pets.CreateInput{Name: "Prize", Attribute: pets.AttributeFire})
	require.NoError(t, err)

	var wins atomic.Int32
	var g errgroup.Group
	for _, caller := range []string{"user-a", "user-b", "user-c", "user-d"} {
		g.Go(func() error {
			_, err := svc.Redeem(ctx, caller, token)
			if err == nil {
				wins.Add(1)
				return nil
			}
			if errors.Is(err, pets.ErrInvalidOrExpiredClaim) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, int32(1), wins.Load())
}
