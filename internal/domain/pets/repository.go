package pets

import "context"

// Repository es el Record Store. Toda mutación pasa por Atomic.
type Repository interface {
	// NextID reserva un id nuevo. Nunca se reutiliza, aunque la operación que lo pidió falle.
	NextID(ctx context.Context) (ID, error)

	// Atomic ejecuta fn como unidad indivisible: commit si fn devuelve nil,
	// si no, ninguna escritura es observable.
	Atomic(ctx context.Context, fn func(tx Tx) error) error

	Get(ctx context.Context, id ID) (Pet, error)
	ListByOwner(ctx context.Context, owner string) ([]Pet, error)
	Config(ctx context.Context) (Config, error)
}

// Tx es la vista de lectura/escritura dentro de Atomic.
type Tx interface {
	Get(ctx context.Context, id ID) (Pet, error)
	// GetByClaimToken usa el índice secundario por token (no un scan).
	GetByClaimToken(ctx context.Context, token string) (Pet, error)
	// Put inserta o sobreescribe.
	Put(ctx context.Context, p Pet) error

	Config(ctx context.Context) (Config, error)
	SetConfig(ctx context.Context, c Config) error
}
