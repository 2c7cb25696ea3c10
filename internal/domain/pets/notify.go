package pets

import (
	"context"
	"time"
)

type NotificationKind string

const (
	NotificationPetCreated       NotificationKind = "pet_created"
	NotificationOwnershipClaimed NotificationKind = "ownership_claimed"
	NotificationClaimReissued    NotificationKind = "claim_reissued"
	NotificationBattleRecorded   NotificationKind = "battle_recorded"
	NotificationPetEvolved       NotificationKind = "pet_evolved"
	NotificationConfigUpdated    NotificationKind = "config_updated"
)

// Notification es el aviso que sale hacia indexadores externos.
// Nunca lleva el claim token.
type Notification struct {
	ID     string           `json:"id"`
	Kind   NotificationKind `json:"kind"`
	PetID  ID               `json:"pet_id,omitempty"`
	Actor  string           `json:"actor"`
	At     time.Time        `json:"at"`
	Fields map[string]any   `json:"fields,omitempty"`
}

// Notifier recibe las notificaciones después del commit.
// Se llama dentro de la operación: una implementación lenta la demora.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	if f == nil {
		return nil
	}
	return f(ctx, n)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) error { return nil }
