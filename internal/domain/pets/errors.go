package pets

import "errors"

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidOrExpiredClaim = errors.New("invalid or expired claim")
	ErrAlreadyClaimed        = errors.New("pet already claimed")
	ErrCooldownActive        = errors.New("battle cooldown active")
	ErrNotEligible           = errors.New("not eligible for evolution")
	ErrMaxRarity             = errors.New("already at max rarity")

	// ErrConfigNotFound lo devuelven los repos antes del primer Bootstrap.
	ErrConfigNotFound = errors.New("registry config not found")
)
