package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-ledger/internal/domain/pets"
)

// petRepo es el store en memoria. Un solo mutex serializa todas las unidades
// atómicas; las escrituras de una tx se acumulan (stage) y se aplican juntas (commit).
type petRepo struct {
	mu      sync.RWMutex
	byID    map[pets.ID]pets.Pet
	byToken map[string]pets.ID
	config  *pets.Config

	// seqMu separado: NextID no participa del rollback.
	seqMu  sync.Mutex
	lastID pets.ID
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID:    make(map[pets.ID]pets.Pet),
		byToken: make(map[string]pets.ID),
	}
}

func (r *petRepo) NextID(ctx context.Context) (pets.ID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.seqMu.Lock()
	defer r.seqMu.Unlock()

	r.lastID++
	return r.lastID, nil
}

func (r *petRepo) Atomic(ctx context.Context, fn func(tx pets.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memTx{repo: r, staged: make(map[pets.ID]pets.Pet)}
	if err := fn(tx); err != nil {
		// rollback: lo staged se descarta
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (r *petRepo) Get(ctx context.Context, id pets.ID) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) ListByOwner(ctx context.Context, owner string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.Claimed && p.Owner == owner {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *petRepo) Config(ctx context.Context) (pets.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.config == nil {
		return pets.Config{}, pets.ErrConfigNotFound
	}
	return *r.config, nil
}

type memTx struct {
	repo   *petRepo
	staged map[pets.ID]pets.Pet
	config *pets.Config
}

func (t *memTx) Get(ctx context.Context, id pets.ID) (pets.Pet, error) {
	if p, ok := t.staged[id]; ok {
		return p, nil
	}
	p, ok := t.repo.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (t *memTx) GetByClaimToken(ctx context.Context, token string) (pets.Pet, error) {
	if token == "" {
		return pets.Pet{}, pets.ErrNotFound
	}
	// Lo staged tapa al índice commiteado.
	for _, p := range t.staged {
		if p.ClaimToken == token {
			return p, nil
		}
	}
	id, ok := t.repo.byToken[token]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	p, err := t.Get(ctx, id)
	if err != nil || p.ClaimToken != token {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (t *memTx) Put(ctx context.Context, p pets.Pet) error {
	if p.ID == 0 {
		return errors.New("pet id required")
	}
	t.staged[p.ID] = p
	return nil
}

func (t *memTx) Config(ctx context.Context) (pets.Config, error) {
	if t.config != nil {
		return *t.config, nil
	}
	if t.repo.config == nil {
		return pets.Config{}, pets.ErrConfigNotFound
	}
	return *t.repo.config, nil
}

func (t *memTx) SetConfig(ctx context.Context, c pets.Config) error {
	t.config = &c
	return nil
}

// commit corre con repo.mu tomado.
func (t *memTx) commit() {
	r := t.repo
	for id, p := range t.staged {
		if prev, ok := r.byID[id]; ok && prev.ClaimToken != "" {
			delete(r.byToken, prev.ClaimToken)
		}
		if p.ClaimToken != "" {
			r.byToken[p.ClaimToken] = id
		}
		r.byID[id] = p
	}
	if t.config != nil {
		c := *t.config
		r.config = &c
	}
}
