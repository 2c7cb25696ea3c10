package pets

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

const claimSaltSize = 16

// tokenMinter deriva claim tokens: HMAC-SHA256(key, id | ts | nonce | salt).
// El token se guarda en el registro; no se puede recomputar sin la key y el salt.
type tokenMinter struct {
	key     []byte
	entropy io.Reader
}

func (m tokenMinter) mint(id ID, at time.Time, nonce uint64) (string, error) {
	salt := make([]byte, claimSaltSize)
	if _, err := io.ReadFull(m.entropy, salt); err != nil {
		return "", fmt.Errorf("read claim entropy: %w", err)
	}

	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(id))
	binary.BigEndian.PutUint64(buf[8:16], uint64(at.UnixNano()))
	binary.BigEndian.PutUint64(buf[16:24], nonce)

	mac := hmac.New(sha256.New, m.key)
	_, _ = mac.Write(buf[:])
	_, _ = mac.Write(salt)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

type CreateInput struct {
	Name        string
	Attribute   Attribute
	Rarity      Rarity
	MetadataRef string
}

// Create registra una mascota sin dueño y devuelve su claim token.
// El token solo sale como valor de retorno: no se loguea ni se notifica.
func (s *Service) Create(ctx context.Context, caller string, in CreateInput) (Pet, string, error) {
	caller = strings.TrimSpace(caller)

	// Chequeo temprano para no quemar ids con callers no autorizados.
	cfg, err := s.repo.Config(ctx)
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return Pet{}, "", err
	}
	if !cfg.IsAdmin(caller) {
		return Pet{}, "", ErrUnauthorized
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pet{}, "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !in.Attribute.Valid() {
		return Pet{}, "", fmt.Errorf("%w: unknown attribute %d", ErrInvalidInput, in.Attribute)
	}
	if !in.Rarity.Valid() {
		return Pet{}, "", fmt.Errorf("%w: unknown rarity %d", ErrInvalidInput, in.Rarity)
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return Pet{}, "", fmt.Errorf("allocate pet id: %w", err)
	}

	now := s.timestamp()
	var (
		pet   Pet
		token string
	)
	err = s.repo.Atomic(ctx, func(tx Tx) error {
		cfg, err := requireConfig(ctx, tx)
		if err != nil {
			return err
		}
		// El admin pudo rotar entre la lectura inicial y la tx.
		if !cfg.IsAdmin(caller) {
			return ErrUnauthorized
		}

		cfg.CreationNonce++
		cfg.UpdatedAt = now
		token, err = s.minter.mint(id, now, cfg.CreationNonce)
		if err != nil {
			return err
		}

		pet = Pet{
			ID:          id,
			Name:        name,
			Attribute:   in.Attribute,
			Rarity:      in.Rarity,
			MetadataRef: strings.TrimSpace(in.MetadataRef),
			ClaimToken:  token,
			Level:       LevelFor(0),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if s.claimTTL > 0 {
			pet.ClaimExpiresAt = now.Add(s.claimTTL)
		}

		if err := tx.Put(ctx, pet); err != nil {
			return err
		}
		return tx.SetConfig(ctx, cfg)
	})
	if err != nil {
		return Pet{}, "", err
	}

	s.emit(ctx, Notification{
		Kind:  NotificationPetCreated,
		PetID: pet.ID,
		Actor: caller,
		At:    now,
		Fields: map[string]any{
			"name":         pet.Name,
			"attribute":    pet.Attribute.String(),
			"rarity":       pet.Rarity.String(),
			"metadata_ref": pet.MetadataRef,
		},
	})
	return pet, token, nil
}

// Redeem consume el token y deja al caller como dueño.
// Buscar + marcar ocurre en la misma unidad atómica: un token gana una sola vez.
func (s *Service) Redeem(ctx context.Context, caller, token string) (Pet, error) {
	caller = strings.TrimSpace(caller)
	token = strings.TrimSpace(token)
	if caller == "" {
		return Pet{}, fmt.Errorf("%w: caller is required", ErrInvalidInput)
	}
	if token == "" {
		return Pet{}, ErrInvalidOrExpiredClaim
	}

	now := s.timestamp()
	var (
		pet     Pet
		expired bool
	)
	err := s.repo.Atomic(ctx, func(tx Tx) error {
		p, err := tx.GetByClaimToken(ctx, token)
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidOrExpiredClaim
		}
		if err != nil {
			return err
		}
		if p.Claimed || p.ClaimToken != token {
			return ErrInvalidOrExpiredClaim
		}
		// Un token vencido se borra (y se commitea) antes de rechazar.
		if !p.ClaimExpiresAt.IsZero() && !now.Before(p.ClaimExpiresAt) {
			p.ClaimToken = ""
			p.ClaimExpiresAt = time.Time{}
			p.UpdatedAt = now
			expired = true
			return tx.Put(ctx, p)
		}

		p.Owner = caller
		p.Claimed = true
		p.ClaimToken = ""
		p.ClaimExpiresAt = time.Time{}
		p.UpdatedAt = now
		if err := tx.Put(ctx, p); err != nil {
			return err
		}
		pet = p
		return nil
	})
	if err != nil {
		return Pet{}, err
	}
	if expired {
		return Pet{}, ErrInvalidOrExpiredClaim
	}

	s.emit(ctx, Notification{
		Kind:   NotificationOwnershipClaimed,
		PetID:  pet.ID,
		Actor:  caller,
		At:     now,
		Fields: map[string]any{"owner": pet.Owner},
	})
	return pet, nil
}

// ReissueClaim emite un token nuevo para una mascota sin dueño (p.ej. después
// de que el anterior venciera). Solo admin. El token previo deja de servir.
func (s *Service) ReissueClaim(ctx context.Context, caller string, id ID) (Pet, string, error) {
	caller = strings.TrimSpace(caller)
	if id == 0 {
		return Pet{}, "", ErrNotFound
	}

	now := s.timestamp()
	var (
		pet   Pet
		token string
	)
	err := s.repo.Atomic(ctx, func(tx Tx) error {
		cfg, err := requireConfig(ctx, tx)
		if err != nil {
			return err
		}
		if !cfg.IsAdmin(caller) {
			return ErrUnauthorized
		}

		p, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if p.Claimed {
			return ErrAlreadyClaimed
		}

		cfg.CreationNonce++
		cfg.UpdatedAt = now
		token, err = s.minter.mint(id, now, cfg.CreationNonce)
		if err != nil {
			return err
		}

		p.ClaimToken = token
		p.ClaimExpiresAt = time.Time{}
		if s.claimTTL > 0 {
			p.ClaimExpiresAt = now.Add(s.claimTTL)
		}
		p.UpdatedAt = now
		if err := tx.Put(ctx, p); err != nil {
			return err
		}
		pet = p
		return tx.SetConfig(ctx, cfg)
	})
	if err != nil {
		return Pet{}, "", err
	}

	s.emit(ctx, Notification{
		Kind:  NotificationClaimReissued,
		PetID: pet.ID,
		Actor: caller,
		At:    now,
	})
	return pet, token, nil
}
