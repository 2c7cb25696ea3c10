package memory

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"pet-ledger/internal/domain/pets"

	"golang.org/x/sync/errgroup"
)

func TestPetRepo_NextID_NeverReusedAfterRollback(t *testing.T) {
	ctx := context.Background()
	repo := NewPetRepo()

	id1, _ := repo.NextID(ctx)
	errBoom := errors.New("boom")
	err := repo.Atomic(ctx, func(tx pets.Tx) error {
		_ = tx.Put(ctx, pets.Pet{ID: id1, Name: "ghost"})
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}

	id2, _ := repo.NextID(ctx)
	if id2 <= id1 {
		t.Fatalf("expected strictly increasing ids, got %d then %d", id1, id2)
	}
	if _, err := repo.Get(ctx, id1); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected rolled back pet to be absent, got %v", err)
	}
}

func TestPetRepo_Atomic_StagesBothWritesOrNone(t *testing.T) {
	ctx := context.Background()
	repo := NewPetRepo()

	seed := func(id pets.ID) {
		if err := repo.Atomic(ctx, func(tx pets.Tx) error {
			return tx.Put(ctx, pets.Pet{ID: id, Name: "p", Level: 1})
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	seed(1)
	seed(2)

	err := repo.Atomic(ctx, func(tx pets.Tx) error {
		a, _ := tx.Get(ctx, 1)
		a.Experience = 500
		_ = tx.Put(ctx, a)

		// dentro de la tx se ve lo staged
		again, _ := tx.Get(ctx, 1)
		if again.Experience != 500 {
			t.Fatalf("expected staged read, got %d", again.Experience)
		}
		return errors.New("second write failed")
	})
	if err == nil {
		t.Fatalf("expected error")
	}

	a, _ := repo.Get(ctx, 1)
	if a.Experience != 0 {
		t.Fatalf("expected no partial write, got experience=%d", a.Experience)
	}
}

func TestPetRepo_ClaimTokenIndex_FollowsCommittedState(t *testing.T) {
	ctx := context.Background()
	repo := NewPetRepo()

	_ = repo.Atomic(ctx, func(tx pets.Tx) error {
		return tx.Put(ctx, pets.Pet{ID: 1, Name: "p", ClaimToken: "tok-1"})
	})

	_ = repo.Atomic(ctx, func(tx pets.Tx) error {
		p, err := tx.GetByClaimToken(ctx, "tok-1")
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		p.ClaimToken = ""
		p.Claimed = true
		p.Owner = "u1"
		return tx.Put(ctx, p)
	})

	_ = repo.Atomic(ctx, func(tx pets.Tx) error {
		if _, err := tx.GetByClaimToken(ctx, "tok-1"); !errors.Is(err, pets.ErrNotFound) {
			t.Fatalf("expected consumed token to be gone, got %v", err)
		}
		return nil
	})

	owned, _ := repo.ListByOwner(ctx, "u1")
	if len(owned) != 1 || owned[0].ID != 1 {
		t.Fatalf("expected pet 1 owned by u1, got %#v", owned)
	}
}

func TestPetRepo_Config_NotFoundUntilSet(t *testing.T) {
	ctx := context.Background()
	repo := NewPetRepo()

	if _, err := repo.Config(ctx); !errors.Is(err, pets.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
	_ = repo.Atomic(ctx, func(tx pets.Tx) error {
		return tx.SetConfig(ctx, pets.Config{Admin: "admin-1"})
	})
	cfg, err := repo.Config(ctx)
	if err != nil || cfg.Admin != "admin-1" {
		t.Fatalf("expected admin-1, got %#v err=%v", cfg, err)
	}
}

func TestPetRepo_ConcurrentRedeem_ExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	repo := NewPetRepo()
	svc := pets.NewService(repo, pets.Options{ClaimKey: []byte("memory-test-key")})
	if _, err := svc.Bootstrap(ctx, pets.Config{Admin: "admin-1"}); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	pet, token, err := svc.Create(ctx, "admin-1", pets.CreateInput{Name: "Prize", Attribute: pets.AttributeLight})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var wins, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		caller := fmt.Sprintf("user-%d", i)
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
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected redeem error: %v", err)
	}
	if wins.Load() != 1 || rejected.Load() != 15 {
		t.Fatalf("expected 1 win and 15 rejections, got %d/%d", wins.Load(), rejected.Load())
	}

	stored, err := repo.Get(ctx, pet.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.Claimed || stored.ClaimToken != "" {
		t.Fatalf("expected claimed pet without token, got %+v", stored)
	}
	owned, err := repo.ListByOwner(ctx, stored.Owner)
	if err != nil || len(owned) != 1 {
		t.Fatalf("expected winner to own exactly one pet, got %d (%v)", len(owned), err)
	}
}
