package pets

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-ledger/internal/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	now      func() time.Time
	minter   tokenMinter
	claimTTL time.Duration
	notifier Notifier
	log      logger.Logger
}

type Options struct {
	// ClaimKey firma los claim tokens. Vacío => key aleatoria por proceso.
	ClaimKey []byte
	// ClaimTTL > 0 activa expiración de tokens pendientes.
	ClaimTTL time.Duration

	Notifier Notifier
	Logger   logger.Logger
}

func NewService(repo Repository, opts Options) *Service {
	key := opts.ClaimKey
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = noopNotifier{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Service{
		repo:     repo,
		now:      time.Now,
		minter:   tokenMinter{key: key, entropy: rand.Reader},
		claimTTL: opts.ClaimTTL,
		notifier: notifier,
		log:      log.With(map[string]any{"component": "pets"}),
	}
}

// Get es el accessor de lectura; nunca expone nada que no esté en el registro.
func (s *Service) Get(ctx context.Context, id ID) (Pet, error) {
	if id == 0 {
		return Pet{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, owner string) ([]Pet, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, owner)
}

// OwnerOf expone el owner de una mascota (vacío si no fue reclamada).
func (s *Service) OwnerOf(ctx context.Context, id ID) (string, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Owner, nil
}

// requireConfig lee la config dentro de la tx. Sin bootstrap no hay admin,
// así que nadie está autorizado.
func requireConfig(ctx context.Context, tx Tx) (Config, error) {
	cfg, err := tx.Config(ctx)
	if errors.Is(err, ErrConfigNotFound) {
		return Config{}, fmt.Errorf("%w: registry not bootstrapped", ErrUnauthorized)
	}
	return cfg, err
}

// timestamp usa precisión de microsegundos (la de timestamptz), así lo que
// vuelve de cualquier store es igual a lo que se escribió.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// emit pasa notificaciones ya commiteadas al Notifier, que no debe bloquear
// (en el proceso real es un notify.Outbox). Un fallo no deshace la operación.
func (s *Service) emit(ctx context.Context, notes ...Notification) {
	for _, n := range notes {
		n.ID = uuid.NewString()
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.log.Warn("notification not enqueued", map[string]any{
				"kind":   string(n.Kind),
				"pet_id": uint64(n.PetID),
				"error":  err,
			})
		}
	}
}
