package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-ledger/internal/domain/pets"
)

var _ pets.Repository = (*Store)(nil)

const petColumns = `
	id,
	name, attribute, rarity, metadata_ref,
	owner, claimed, claim_token, claim_expires_at,
	level, experience, battle_count, battle_wins, last_battle_at,
	created_at, updated_at`

// NextID corre en autocommit fuera de cualquier unidad atómica: un rollback posterior no lo devuelve.
func (s *Store) NextID(ctx context.Context) (pets.ID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var id int64
	err := s.sqlDB.QueryRowContext(ctx, `
INSERT INTO pet_sequence (name, seq) VALUES ('pets', 1)
ON CONFLICT (name) DO UPDATE SET seq = seq + 1
RETURNING seq
`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("next pet id: %w", err)
	}
	return pets.ID(id), nil
}

func (s *Store) Atomic(ctx context.Context, fn func(tx pets.Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(&sqliteTx{tx: sqlTx}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id pets.ID) (pets.Pet, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT`+petColumns+` FROM pets WHERE id = ?`, int64(id))
	return scanPet(row)
}

func (s *Store) ListByOwner(ctx context.Context, owner string) ([]pets.Pet, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT`+petColumns+`
FROM pets
WHERE claimed = 1 AND owner = ?
ORDER BY id ASC
`, owner)
	if err != nil {
		return nil, fmt.Errorf("list pets by owner: %w", err)
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

func (s *Store) Config(ctx context.Context) (pets.Config, error) {
	return scanConfig(s.sqlDB.QueryRowContext(ctx, configSelect))
}

type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) Get(ctx context.Context, id pets.ID) (pets.Pet, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT`+petColumns+` FROM pets WHERE id = ?`, int64(id))
	return scanPet(row)
}

func (t *sqliteTx) GetByClaimToken(ctx context.Context, token string) (pets.Pet, error) {
	if token == "" {
		return pets.Pet{}, pets.ErrNotFound
	}
	row := t.tx.QueryRowContext(ctx, `SELECT`+petColumns+` FROM pets WHERE claim_token = ?`, token)
	return scanPet(row)
}

func (t *sqliteTx) Put(ctx context.Context, p pets.Pet) error {
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO pets (`+petColumns+`
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	name = excluded.name,
	rarity = excluded.rarity,
	metadata_ref = excluded.metadata_ref,
	owner = excluded.owner,
	claimed = excluded.claimed,
	claim_token = excluded.claim_token,
	claim_expires_at = excluded.claim_expires_at,
	level = excluded.level,
	experience = excluded.experience,
	battle_count = excluded.battle_count,
	battle_wins = excluded.battle_wins,
	last_battle_at = excluded.last_battle_at,
	updated_at = excluded.updated_at
`,
		int64(p.ID),
		p.Name,
		int64(p.Attribute),
		int64(p.Rarity),
		p.MetadataRef,
		p.Owner,
		boolToInt(p.Claimed),
		nullString(p.ClaimToken),
		nullNanos(p.ClaimExpiresAt),
		int64(p.Level),
		int64(p.Experience),
		int64(p.BattleCount),
		int64(p.BattleWins),
		nullNanos(p.LastBattleAt),
		p.CreatedAt.UTC().UnixNano(),
		p.UpdatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("put pet %s: %w", p.ID, err)
	}
	return nil
}

func (t *sqliteTx) Config(ctx context.Context) (pets.Config, error) {
	return scanConfig(t.tx.QueryRowContext(ctx, configSelect))
}

func (t *sqliteTx) SetConfig(ctx context.Context, c pets.Config) error {
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO registry_config (id, admin, battle_oracle, battle_cooldown, creation_nonce, updated_at)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	admin = excluded.admin,
	battle_oracle = excluded.battle_oracle,
	battle_cooldown = excluded.battle_cooldown,
	creation_nonce = excluded.creation_nonce,
	updated_at = excluded.updated_at
`,
		c.Admin,
		c.BattleOracle,
		c.BattleCooldown,
		int64(c.CreationNonce),
		c.UpdatedAt.UTC().UnixNano(),
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
		id, attribute, rarity    int64
		claimed                  int64
		level, xp, count, wins   int64
		token                    sql.NullString
		claimExpires, lastBattle sql.NullInt64
		createdAt, updatedAt     int64
	)
	if err := row.Scan(
		&id,
		&p.Name,
		&attribute,
		&rarity,
		&p.MetadataRef,
		&p.Owner,
		&claimed,
		&token,
		&claimExpires,
		&level,
		&xp,
		&count,
		&wins,
		&lastBattle,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, fmt.Errorf("scan pet: %w", err)
	}

	p.ID = pets.ID(id)
	p.Attribute = pets.Attribute(attribute)
	p.Rarity = pets.Rarity(rarity)
	p.Claimed = claimed != 0
	p.ClaimToken = token.String
	p.ClaimExpiresAt = fromNullNanos(claimExpires)
	p.Level = uint64(level)
	p.Experience = uint64(xp)
	p.BattleCount = uint64(count)
	p.BattleWins = uint64(wins)
	p.LastBattleAt = fromNullNanos(lastBattle)
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return p, nil
}

func scanConfig(row scanner) (pets.Config, error) {
	var (
		c         pets.Config
		nonce     int64
		updatedAt int64
	)
	if err := row.Scan(&c.Admin, &c.BattleOracle, &c.BattleCooldown, &nonce, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Config{}, pets.ErrConfigNotFound
		}
		return pets.Config{}, fmt.Errorf("scan registry config: %w", err)
	}
	c.CreationNonce = uint64(nonce)
	c.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return c, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullNanos(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UTC().UnixNano(), Valid: true}
}

func fromNullNanos(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(0, v.Int64).UTC()
}
