package pets

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// XPPerLevel es la experiencia necesaria por cada nivel.
	XPPerLevel uint64 = 100

	// EvolutionLevel es el nivel mínimo para evolucionar (constante de protocolo).
	EvolutionLevel uint64 = 30
)

// ID identifica una mascota. Secuencial desde 1; 0 nunca es válido.
type ID uint64

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID acepta el formato decimal que usa la API.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: invalid pet id %q", ErrInvalidInput, s)
	}
	return ID(n), nil
}

// Attribute es el elemento de la mascota. Conjunto cerrado, inmutable.
// @Enum fire, water, plant, electric, earth, air, light, dark
type Attribute uint8

const (
	AttributeFire Attribute = iota
	AttributeWater
	AttributePlant
	AttributeElectric
	AttributeEarth
	AttributeAir
	AttributeLight
	AttributeDark
)

var attributeNames = [...]string{"fire", "water", "plant", "electric", "earth", "air", "light", "dark"}

func (a Attribute) Valid() bool {
	return int(a) < len(attributeNames)
}

func (a Attribute) String() string {
	if !a.Valid() {
		return "attribute(" + strconv.Itoa(int(a)) + ")"
	}
	return attributeNames[a]
}

func ParseAttribute(s string) (Attribute, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range attributeNames {
		if name == s {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown attribute %q", ErrInvalidInput, s)
}

// Rarity es el tier de la mascota. Ordenado; solo avanza vía evolución.
// @Enum common, uncommon, rare, epic, legendary
type Rarity uint8

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = [...]string{"common", "uncommon", "rare", "epic", "legendary"}

func (r Rarity) Valid() bool {
	return int(r) < len(rarityNames)
}

func (r Rarity) String() string {
	if !r.Valid() {
		return "rarity(" + strconv.Itoa(int(r)) + ")"
	}
	return rarityNames[r]
}

// IsMax indica si ya está en el tier más alto.
func (r Rarity) IsMax() bool {
	return r == RarityLegendary
}

// Next devuelve el tier siguiente; false si ya es el máximo.
func (r Rarity) Next() (Rarity, bool) {
	if r.IsMax() || !r.Valid() {
		return r, false
	}
	return r + 1, true
}

func ParseRarity(s string) (Rarity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range rarityNames {
		if name == s {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rarity %q", ErrInvalidInput, s)
}

// Pet es el registro de una mascota: propiedad + progresión.
type Pet struct {
	ID ID

	Name        string
	Attribute   Attribute
	Rarity      Rarity
	MetadataRef string // puntero opaco a contenido externo (ipfs://..., https://...)

	Owner   string // vacío mientras no se reclame
	Claimed bool

	// ClaimToken es el secreto pendiente; vacío una vez consumido.
	ClaimToken     string
	ClaimExpiresAt time.Time // zero = sin expiración

	Level        uint64
	Experience   uint64
	BattleCount  uint64
	BattleWins   uint64
	LastBattleAt time.Time // zero = nunca peleó

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LevelFor es la única fuente del nivel: siempre se recalcula desde la experiencia.
func LevelFor(experience uint64) uint64 {
	return experience/XPPerLevel + 1
}

// Config es la configuración global del registro (instancia única).
type Config struct {
	Admin          string
	BattleOracle   string // opcional
	BattleCooldown int64  // segundos; 0 desactiva el chequeo

	// CreationNonce crece con cada Create y entra en la derivación del claim token.
	CreationNonce uint64

	UpdatedAt time.Time
}

// IsAdmin, IsOracle e IsOwner son predicados independientes (no hay jerarquía de roles).
func (c Config) IsAdmin(caller string) bool {
	return caller != "" && caller == c.Admin
}

func (c Config) IsOracle(caller string) bool {
	return caller != "" && c.BattleOracle != "" && caller == c.BattleOracle
}

func (p Pet) IsOwner(caller string) bool {
	return p.Claimed && caller != "" && caller == p.Owner
}
