package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-ledger/internal/domain/pets"
)

const petColumns = `
	id,
	name, attribute, rarity, metadata_ref,
	owner, claimed, claim_token, claim_expires_at,
	level, experience, battle_count, battle_wins, last_battle_at,
	created_at, updated_at`

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

// NextID usa una secuencia: nextval no se revierte con la tx, así que un id nunca se repite.
func (r *PetsRepo) NextID(ctx context.Context) (pets.ID, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('pet_id_seq')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("next pet id: %w", err)
	}
	return pets.ID(id), nil
}

func (r *PetsRepo) Atomic(ctx context.Context, fn func(tx pets.Tx) error) (err error) {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(&pgTx{tx: sqlTx}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *PetsRepo) Get(ctx context.Context, id pets.ID) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+petColumns+` FROM pets WHERE id = $1`, int64(id))
	return scanPet(row)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, owner string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+petColumns+`
		FROM pets
		WHERE claimed AND owner = $1
		ORDER BY id ASC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Config(ctx context.Context) (pets.Config, error) {
	return scanConfig(r.db.QueryRowContext(ctx, configSelect))
}

// pgTx lee con FOR UPDATE: la fila queda bloqueada hasta el commit, así que
// dos redeem del mismo token se serializan y el segundo ya no la encuentra.
type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) Get(ctx context.Context, id pets.ID) (pets.Pet, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT`+petColumns+` FROM pets WHERE id = $1 FOR UPDATE`, int64(id))
	return scanPet(row)
}

func (t *pgTx) GetByClaimToken(ctx context.Context, token string) (pets.Pet, error) {
	if token == "" {
		return pets.Pet{}, pets.ErrNotFound
	}
	row := t.tx.QueryRowContext(ctx, `SELECT`+petColumns+` FROM pets WHERE claim_token = $1 FOR UPDATE`, token)
	return scanPet(row)
}

func (t *pgTx) Put(ctx context.Context, p pets.Pet) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			rarity = EXCLUDED.rarity,
			metadata_ref = EXCLUDED.metadata_ref,
			owner = EXCLUDED.owner,
			claimed = EXCLUDED.claimed,
			claim_token = EXCLUDED.claim_token,
			claim_expires_at = EXCLUDED.claim_expires_at,
			level = EXCLUDED.level,
			experience = EXCLUDED.experience,
			battle_count = EXCLUDED.battle_count,
			battle_wins = EXCLUDED.battle_wins,
			last_battle_at = EXCLUDED.last_battle_at,
			updated_at = EXCLUDED.updated_at
	`,
		int64(p.ID),
		p.Name,
		int16(p.Attribute),
		int16(p.Rarity),
		p.MetadataRef,
		p.Owner,
		p.Claimed,
		toNullString(p.ClaimToken),
		toNullTime(p.ClaimExpiresAt),
		int64(p.Level),
		int64(p.Experience),
		int64(p.BattleCount),
		int64(p.BattleWins),
		toNullTime(p.LastBattleAt),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("put pet %s: %w", p.ID, err)
	}
	return nil
}

func (t *pgTx) Config(ctx context.Context) (pets.Config, error) {
	return scanConfig(t.tx.QueryRowContext(ctx, configSelect+` FOR UPDATE`))
}

func (t *pgTx) SetConfig(ctx context.Context, c pets.Config) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO registry_config (id, admin, battle_oracle, battle_cooldown, creation_nonce, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			admin = EXCLUDED.admin,
			battle_oracle = EXCLUDED.battle_oracle,
			battle_cooldown = EXCLUDED.battle_cooldown,
			creation_nonce = EXCLUDED.creation_nonce,
			updated_at = EXCLUDED.updated_at
	`,
		c.Admin,
		c.BattleOracle,
		c.BattleCooldown,
		int64(c.CreationNonce),
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("set registry config: %w", err)
	}
	return nil
}

const configSelect = `
	SELECT admin, battle_oracle, battle_cooldown, creation_nonce, updated_at
	FROM registry_config
	WHERE id = 1`

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(row scanner) (pets.Pet, error) {
	var (
		p                        pets.Pet
		id                       int64
		attribute, rarity        int16
		level, xp, count, wins   int64
		token                    sql.NullString
		claimExpires, lastBattle sql.NullTime
	)
	if err := row.Scan(
		&id,
		&p.Name,
		&attribute,
		&rarity,
		&p.MetadataRef,
		&p.Owner,
		&p.Claimed,
		&token,
		&claimExpires,
		&level,
		&xp,
		&count,
		&wins,
		&lastBattle,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}

	p.ID = pets.ID(id)
	p.Attribute = pets.Attribute(attribute)
	p.Rarity = pets.Rarity(rarity)
	p.ClaimToken = token.String
	p.Level = uint64(level)
	p.Experience = uint64(xp)
	p.BattleCount = uint64(count)
	p.BattleWins = uint64(wins)
	if claimExpires.Valid {
		p.ClaimExpiresAt = claimExpires.Time.UTC()
	}
	if lastBattle.Valid {
		p.LastBattleAt = lastBattle.Time.UTC()
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func scanConfig(row scanner) (pets.Config, error) {
	var (
		c     pets.Config
		nonce int64
	)
	if err := row.Scan(&c.Admin, &c.BattleOracle, &c.BattleCooldown, &nonce, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Config{}, pets.ErrConfigNotFound
		}
		return pets.Config{}, err
	}
	c.CreationNonce = uint64(nonce)
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t, Valid: true}
}
