package notify

import (
	"context"
	"errors"
	"time"

	"pet-ledger/internal/domain/pets"
	"pet-ledger/internal/platform/logger"
)

var _ pets.Notifier = (*Outbox)(nil)

// ErrOutboxFull: la cola está llena y la notificación se descartó.
var ErrOutboxFull = errors.New("notification outbox full")

const (
	DefaultOutboxSize   = 256
	defaultFlushTimeout = 5 * time.Second
)

// Outbox desacopla la entrega de la operación que la originó.
// Notify solo encola (nunca bloquea); Run entrega en orden con el sink de atrás.
type Outbox struct {
	next         pets.Notifier
	queue        chan pets.Notification
	flushTimeout time.Duration
	log          logger.Logger
	done         chan struct{}
}

// NewOutbox arma la cola. size <= 0 => DefaultOutboxSize; flushTimeout <= 0 => 5s.
func NewOutbox(next pets.Notifier, size int, flushTimeout time.Duration, log logger.Logger) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	if flushTimeout <= 0 {
		flushTimeout = defaultFlushTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Outbox{
		next:         next,
		queue:        make(chan pets.Notification, size),
		flushTimeout: flushTimeout,
		log:          log.With(map[string]any{"component": "outbox"}),
		done:         make(chan struct{}),
	}
}

// Notify encola n. El ctx del caller no se propaga a la entrega.
func (o *Outbox) Notify(_ context.Context, n pets.Notification) error {
	select {
	case o.queue <- n:
		return nil
	default:
		o.log.Warn("notification dropped", map[string]any{
			"notification_id": n.ID,
			"kind":            string(n.Kind),
			"pet_id":          uint64(n.PetID),
		})
		return ErrOutboxFull
	}
}

// Run entrega hasta que ctx se cancela; después vacía lo pendiente con flushTimeout.
// Se llama una sola vez.
func (o *Outbox) Run(ctx context.Context) {
	defer close(o.done)
	for {
		select {
		case n := <-o.queue:
			o.deliver(ctx, n)
		case <-ctx.Done():
			o.flush()
			return
		}
	}
}

// Wait bloquea hasta que Run termina.
func (o *Outbox) Wait() {
	<-o.done
}

// Pending cuenta las notificaciones encoladas sin entregar.
func (o *Outbox) Pending() int {
	return len(o.queue)
}

func (o *Outbox) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), o.flushTimeout)
	defer cancel()
	for {
		select {
		case n := <-o.queue:
			o.deliver(ctx, n)
		default:
			return
		}
	}
}

func (o *Outbox) deliver(ctx context.Context, n pets.Notification) {
	if o.next == nil {
		return
	}
	if err := o.next.Notify(ctx, n); err != nil {
		o.log.Warn("notification delivery failed", map[string]any{
			"notification_id": n.ID,
			"kind":            string(n.Kind),
			"pet_id":          uint64(n.PetID),
			"error":           err,
		})
	}
}
