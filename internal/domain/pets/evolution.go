package pets

import (
	"context"
	"fmt"
	"strings"
)

type EvolveInput struct {
	Name        string
	MetadataRef string
}

// canEvolve: nivel >= EvolutionLevel y todavía hay tier por encima.
func canEvolve(p Pet) bool {
	return p.Level >= EvolutionLevel && !p.Rarity.IsMax()
}

// CheckEvolution es de solo lectura.
func (s *Service) CheckEvolution(ctx context.Context, id ID) (bool, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return canEvolve(p), nil
}

// Evolve sube un tier de rareza y reescribe nombre/metadata.
// Nivel, experiencia y contadores de batalla se conservan.
func (s *Service) Evolve(ctx context.Context, caller string, id ID, in EvolveInput) (Pet, error) {
	caller = strings.TrimSpace(caller)
	name := strings.TrimSpace(in.Name)
	ref := strings.TrimSpace(in.MetadataRef)
	if id == 0 {
		return Pet{}, ErrNotFound
	}

	now := s.timestamp()
	var (
		pet  Pet
		from Rarity
	)
	err := s.repo.Atomic(ctx, func(tx Tx) error {
		p, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsOwner(caller) {
			return ErrUnauthorized
		}
		if name == "" || ref == "" {
			return fmt.Errorf("%w: name and metadata_ref are required", ErrInvalidInput)
		}
		if !canEvolve(p) {
			return ErrNotEligible
		}
		next, ok := p.Rarity.Next()
		if !ok {
			return ErrMaxRarity
		}

		from = p.Rarity
		p.Rarity = next
		p.Name = name
		p.MetadataRef = ref
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

	s.emit(ctx, Notification{
		Kind:  NotificationPetEvolved,
		PetID: pet.ID,
		Actor: caller,
		At:    now,
		Fields: map[string]any{
			"from_rarity":  from.String(),
			"to_rarity":    pet.Rarity.String(),
			"name":         pet.Name,
			"metadata_ref": pet.MetadataRef,
		},
	})
	return pet, nil
}
