package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Bootstrap liga la configuración inicial la primera vez que se abre el store.
// Si ya existe una config guardada, gana la guardada (el admin pudo haber rotado).
func (s *Service) Bootstrap(ctx context.Context, initial Config) (Config, error) {
	initial.Admin = strings.TrimSpace(initial.Admin)
	initial.BattleOracle = strings.TrimSpace(initial.BattleOracle)
	if initial.Admin == "" {
		return Config{}, fmt.Errorf("%w: admin is required", ErrInvalidInput)
	}
	if initial.BattleCooldown < 0 {
		return Config{}, fmt.Errorf("%w: battle cooldown must be >= 0", ErrInvalidInput)
	}

	var out Config
	err := s.repo.Atomic(ctx, func(tx Tx) error {
		existing, err := tx.Config(ctx)
		if err == nil {
			out = existing
			return nil
		}
		if !errors.Is(err, ErrConfigNotFound) {
			return err
		}

		initial.CreationNonce = 0
		initial.UpdatedAt = s.timestamp()
		if err := tx.SetConfig(ctx, initial); err != nil {
			return err
		}
		out = initial
		return nil
	})
	if err != nil {
		return Config{}, err
	}

	s.log.Info("registry bootstrapped", map[string]any{
		"admin":           out.Admin,
		"battle_oracle":   out.BattleOracle,
		"battle_cooldown": out.BattleCooldown,
	})
	return out, nil
}

func (s *Service) Config(ctx context.Context) (Config, error) {
	return s.repo.Config(ctx)
}

// SetBattleCooldown: solo admin. 0 desactiva el cooldown.
func (s *Service) SetBattleCooldown(ctx context.Context, caller string, seconds int64) (Config, error) {
	if seconds < 0 {
		return Config{}, fmt.Errorf("%w: battle cooldown must be >= 0", ErrInvalidInput)
	}
	return s.updateConfig(ctx, caller, "battle_cooldown", seconds, func(c *Config) {
		c.BattleCooldown = seconds
	})
}

// SetBattleOracle: solo admin. Vacío quita el oracle.
func (s *Service) SetBattleOracle(ctx context.Context, caller, oracle string) (Config, error) {
	oracle = strings.TrimSpace(oracle)
	return s.updateConfig(ctx, caller, "battle_oracle", oracle, func(c *Config) {
		c.BattleOracle = oracle
	})
}

// TransferAdmin rota el admin. El admin anterior pierde el rol en el mismo commit.
func (s *Service) TransferAdmin(ctx context.Context, caller, newAdmin string) (Config, error) {
	newAdmin = strings.TrimSpace(newAdmin)
	if newAdmin == "" {
		return Config{}, fmt.Errorf("%w: admin is required", ErrInvalidInput)
	}
	return s.updateConfig(ctx, caller, "admin", newAdmin, func(c *Config) {
		c.Admin = newAdmin
	})
}

func (s *Service) updateConfig(ctx context.Context, caller, field string, value any, apply func(*Config)) (Config, error) {
	caller = strings.TrimSpace(caller)
	now := s.timestamp()

	var out Config
	err := s.repo.Atomic(ctx, func(tx Tx) error {
		cfg, err := requireConfig(ctx, tx)
		if err != nil {
			return err
		}
		if !cfg.IsAdmin(caller) {
			return ErrUnauthorized
		}
		apply(&cfg)
		cfg.UpdatedAt = now
		if err := tx.SetConfig(ctx, cfg); err != nil {
			return err
		}
		out = cfg
		return nil
	})
	if err != nil {
		return Config{}, err
	}

	s.emit(ctx, Notification{
		Kind:   NotificationConfigUpdated,
		Actor:  caller,
		At:     now,
		Fields: map[string]any{field: value},
	})
	return out, nil
}
