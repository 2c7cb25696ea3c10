package pets

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

type BattleInput struct {
	PetA ID
	PetB ID
	XPA  uint64
	XPB  uint64
}

type BattleResult struct {
	PetA Pet
	PetB Pet
	// Winner es el id que recibió más XP; 0 en empate.
	Winner ID
}

// RecordBattle aplica el resultado de una batalla a ambos participantes.
// Gana quien recibe estrictamente más XP; empate => nadie suma victoria.
// Las dos escrituras van en la misma unidad atómica.
func (s *Service) RecordBattle(ctx context.Context, caller string, in BattleInput) (BattleResult, error) {
	caller = strings.TrimSpace(caller)
	winA := in.XPA > in.XPB
	winB := in.XPB > in.XPA

	now := s.timestamp()
	var res BattleResult
	err := s.repo.Atomic(ctx, func(tx Tx) error {
		cfg, err := requireConfig(ctx, tx)
		if err != nil {
			return err
		}
		if !cfg.IsAdmin(caller) && !cfg.IsOracle(caller) {
			return ErrUnauthorized
		}

		a, b, err := loadPair(ctx, tx, in.PetA, in.PetB)
		if err != nil {
			return err
		}

		cooldown := time.Duration(cfg.BattleCooldown) * time.Second
		if onCooldown(a, now, cooldown) || onCooldown(b, now, cooldown) {
			return ErrCooldownActive
		}

		// Misma mascota en ambos lados: las dos asignaciones caen sobre un solo registro.
		if in.PetA == in.PetB {
			if err := applyBattle(&a, in.XPA, winA, now); err != nil {
				return err
			}
			if err := applyBattle(&a, in.XPB, winB, now); err != nil {
				return err
			}
			if err := tx.Put(ctx, a); err != nil {
				return err
			}
			res = BattleResult{PetA: a, PetB: a}
			return nil
		}

		if err := applyBattle(&a, in.XPA, winA, now); err != nil {
			return err
		}
		if err := applyBattle(&b, in.XPB, winB, now); err != nil {
			return err
		}
		if err := tx.Put(ctx, a); err != nil {
			return err
		}
		if err := tx.Put(ctx, b); err != nil {
			return err
		}
		res = BattleResult{PetA: a, PetB: b}
		return nil
	})
	if err != nil {
		return BattleResult{}, err
	}

	switch {
	case winA:
		res.Winner = in.PetA
	case winB:
		res.Winner = in.PetB
	}

	s.emit(ctx,
		battleNotification(caller, now, res.PetA, in.XPA, winA, in.PetB),
		battleNotification(caller, now, res.PetB, in.XPB, winB, in.PetA),
	)
	return res, nil
}

// loadPair lee en orden ascendente de id para que los locks por fila
// de los stores SQL siempre se tomen en el mismo orden.
func loadPair(ctx context.Context, tx Tx, idA, idB ID) (Pet, Pet, error) {
	first, second := idA, idB
	if first > second {
		first, second = second, first
	}

	lo, err := tx.Get(ctx, first)
	if err != nil {
		return Pet{}, Pet{}, fmt.Errorf("pet %s: %w", first, err)
	}
	hi := lo
	if second != first {
		hi, err = tx.Get(ctx, second)
		if err != nil {
			return Pet{}, Pet{}, fmt.Errorf("pet %s: %w", second, err)
		}
	}

	if idA == first {
		return lo, hi, nil
	}
	return hi, lo, nil
}

// onCooldown: la última batalla es más reciente que now - cooldown. 0 desactiva.
func onCooldown(p Pet, now time.Time, cooldown time.Duration) bool {
	if cooldown <= 0 || p.LastBattleAt.IsZero() {
		return false
	}
	return p.LastBattleAt.After(now.Add(-cooldown))
}

func applyBattle(p *Pet, xp uint64, won bool, now time.Time) error {
	if xp > math.MaxUint64-p.Experience {
		return fmt.Errorf("%w: experience overflow for pet %s", ErrInvalidInput, p.ID)
	}
	p.Experience += xp
	p.Level = LevelFor(p.Experience)
	p.BattleCount++
	if won {
		p.BattleWins++
	}
	p.LastBattleAt = now
	p.UpdatedAt = now
	return nil
}

func battleNotification(actor string, at time.Time, p Pet, xp uint64, won bool, opponent ID) Notification {
	return Notification{
		Kind:  NotificationBattleRecorded,
		PetID: p.ID,
		Actor: actor,
		At:    at,
		Fields: map[string]any{
			"opponent":   uint64(opponent),
			"xp_granted": xp,
			"won":        won,
			"experience": p.Experience,
			"level":      p.Level,
		},
	}
}
