package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-ledger/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Get("/{petID}/evolution", checkEvolutionHandler(svc))
		pr.Post("/{petID}/evolve", evolvePetHandler(svc))
		pr.Post("/{petID}/claim-token", reissueClaimHandler(svc))
	})

	r.Post("/claims", redeemClaimHandler(svc))
	r.Post("/battles", recordBattleHandler(svc))

	r.Route("/me/pets", func(mr chi.Router) {
		mr.Get("/", listMyPetsHandler(svc))
	})

	r.Route("/config", func(cr chi.Router) {
		cr.Get("/", getConfigHandler(svc))
		cr.Put("/cooldown", setCooldownHandler(svc))
		cr.Put("/oracle", setOracleHandler(svc))
		cr.Put("/admin", transferAdminHandler(svc))
	})
}

type createPetRequest struct {
	Name        string `json:"name"`
	Attribute   string `json:"attribute" example:"fire"`
	Rarity      string `json:"rarity" example:"common"`
	MetadataRef string `json:"metadata_ref" example:"ipfs://metadata/1"`
}

type createPetResponse struct {
	Pet        petResponse `json:"pet"`
	ClaimToken string      `json:"claim_token"`
}

type redeemClaimRequest struct {
	ClaimToken string `json:"claim_token"`
}

type recordBattleRequest struct {
	PetA uint64 `json:"pet_a"`
	PetB uint64 `json:"pet_b"`
	XPA  uint64 `json:"xp_a"`
	XPB  uint64 `json:"xp_b"`
}

type recordBattleResponse struct {
	PetA   petResponse `json:"pet_a"`
	PetB   petResponse `json:"pet_b"`
	Winner uint64      `json:"winner"` // 0 = empate
}

type evolvePetRequest struct {
	Name        string `json:"name"`
	MetadataRef string `json:"metadata_ref"`
}

type evolutionResponse struct {
	PetID    uint64 `json:"pet_id"`
	Eligible bool   `json:"eligible"`
}

type setCooldownRequest struct {
	Seconds int64 `json:"seconds"`
}

type setOracleRequest struct {
	Oracle string `json:"oracle"`
}

type transferAdminRequest struct {
	Admin string `json:"admin"`
}

// petResponse nunca incluye el claim token.
type petResponse struct {
	ID             uint64     `json:"id"`
	Name           string     `json:"name"`
	Attribute      string     `json:"attribute"`
	Rarity         string     `json:"rarity"`
	MetadataRef    string     `json:"metadata_ref"`
	Owner          string     `json:"owner,omitempty"`
	Claimed        bool       `json:"claimed"`
	ClaimExpiresAt *time.Time `json:"claim_expires_at,omitempty"`
	Level          uint64     `json:"level"`
	Experience     uint64     `json:"experience"`
	BattleCount    uint64     `json:"battle_count"`
	BattleWins     uint64     `json:"battle_wins"`
	LastBattleAt   *time.Time `json:"last_battle_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type configResponse struct {
	Admin          string    `json:"admin"`
	BattleOracle   string    `json:"battle_oracle,omitempty"`
	BattleCooldown int64     `json:"battle_cooldown_seconds"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description Registra una mascota sin dueño y devuelve el claim token. Solo el admin del registro. El token se entrega una única vez en esta respuesta. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} createPetResponse
// @Failure 400 {string} string "invalid json / atributo o rareza desconocidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerID(w, r)
		if !ok {
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		attr, err := ParseAttribute(req.Attribute)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rarity := RarityCommon
		if strings.TrimSpace(req.Rarity) != "" {
			rarity, err = ParseRarity(req.Rarity)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		p, token, err := svc.Create(r.Context(), caller, CreateInput{
			Name:        req.Name,
			Attribute:   attr,
			Rarity:      rarity,
			MetadataRef: req.MetadataRef,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, createPetResponse{
			Pet:        toPetResponse(p),
			ClaimToken: token,
		})
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Description Devuelve el registro público de una mascota. Lectura abierta, no requiere autenticación.
// @Tags pets
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid pet id"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "invalid pet id", http.StatusBadRequest)
			return
		}

		p, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// listMyPetsHandler godoc
// @Summary Listar mis mascotas
// @Description Lista las mascotas reclamadas por el usuario autenticado, ordenadas por id.
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} petResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/pets [get]
func listMyPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerID(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByOwner(r.Context(), caller)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// redeemClaimHandler godoc
// @Summary Reclamar mascota
// @Description Canjea un claim token y deja al usuario autenticado como dueño. Cada token se puede canjear una sola vez.
// @Tags claims
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body redeemClaimRequest true "Claim token recibido al crear la mascota"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "Invalid or expired hash"
// @Router /claims [post]
func redeemClaimHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerID(w, r)
		if !ok {
			return
		}

		var req redeemClaimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Redeem(r.Context(), caller, req.ClaimToken)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// recordBattleHandler godoc
// @Summary Registrar batalla
// @Description Aplica el resultado de una batalla a ambas mascotas. Solo admin o battle oracle. Gana quien recibe más XP; en empate nadie suma victoria.
// @Tags battles
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body recordBattleRequest true "Participantes y XP otorgada"
// @Success 200 {object} recordBattleResponse
// @Failure 400 {string} string "invalid json / overflow de experiencia"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 429 {string} string "battle cooldown active"
// @Router /battles [post]
func recordBattleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerID(w, r)
		if !ok {
			return
		}

		var req recordBattleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.RecordBattle(r.Context(), caller, BattleInput{
			PetA: ID(req.PetA),
			PetB: ID(req.PetB),
			XPA:  req.XPA,
			XPB:  req.XPB,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, recordBattleResponse{
			PetA:   toPetResponse(res.PetA),
			PetB:   toPetResponse(res.PetB),
			Winner: uint64(res.Winner),
		})
	}
}

// checkEvolutionHandler godoc
// @Summary Consultar elegibilidad de evolución
// @Description Indica si la mascota alcanzó el nivel de evolución y todavía tiene un tier por encima. Solo lectura.
// @Tags evolution
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Success 200 {object} evolutionResponse
// @Failure 400 {string} string "invalid pet id"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/evolution [get]
func checkEvolutionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "invalid pet id", http.StatusBadRequest)
			return
		}

		ok, err := svc.CheckEvolution(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, evolutionResponse{PetID: uint64(id), Eligible: ok})
	}
}

// evolvePetHandler godoc
// @Summary Evolucionar mascota
// @Description Sube un tier de rareza y reemplaza nombre y metadata. Solo el dueño. Nivel, experiencia y contadores se conservan.
// @Tags evolution
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path int true "ID de la mascota"
// @Param payload body evolvePetRequest true "Nombre y metadata nuevos"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid json / campos requeridos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "not eligible for evolution"
// @Router /pets/{petID}/evolve [post]
func evolvePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerID(w, r)
		if !ok {
			return
		}

		id, err := ParseID(chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "invalid pet id", http.StatusBadRequest)
			return
		}

		var req evolvePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Evolve(r.Context(), caller, id, EvolveInput{
			Name:        req.Name,
			MetadataRef: req.MetadataRef,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// reissueClaimHandler godoc
// @Summary Reemitir claim token
// @Description Genera un token nuevo para una mascota sin dueño (por ejemplo, si el anterior venció). Solo el admin. El token previo queda invalidado.
// @Tags claims
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path int true "ID de la mascota"
// @Success 200 {object} createPetResponse
// @Failure 400 {string} string "invalid pet id"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "pet already claimed"
// @Router /pets/{petID}/claim-token [post]
func reissueClaimHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerID(w, r)
		if !ok {
			return
		}

		id, err := ParseID(chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "invalid pet id", http.StatusBadRequest)
			return
		}

		p, token, err := svc.ReissueClaim(r.Context(), caller, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, createPetResponse{Pet: toPetResponse(p), ClaimToken: token})
	}
}

// getConfigHandler godoc
// @Summary Ver configuración del registro
// @Description Devuelve admin, battle oracle y cooldown vigentes.
// @Tags config
// @Produce json
// @Success 200 {object} configResponse
// @Failure 404 {string} string "registry not bootstrapped"
// @Router /config [get]
func getConfigHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.Config(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toConfigResponse(cfg))
	}
}

// setCooldownHandler godoc
// @Summary Cambiar cooldown de batalla
// @Description Solo admin. 0 desactiva el cooldown.
// @Tags config
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body setCooldownRequest true "Segundos"
// @Success 200 {object} configResponse
// @Failure 400 {string} string "invalid json / valor negativo"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /config/cooldown [put]
func setCooldownHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerID(w, r)
		if !ok {
			return
		}

		var req setCooldownRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		cfg, err := svc.SetBattleCooldown(r.Context(), caller, req.Seconds)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toConfigResponse(cfg))
	}
}

// setOracleHandler godoc
// @Summary Cambiar battle oracle
// @Description Solo admin. Un valor vacío quita el oracle.
// @Tags config
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body setOracleRequest true "Nuevo oracle"
// @Success 200 {object} configResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /config/oracle [put]
func setOracleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerID(w, r)
		if !ok {
			return
		}

		var req setOracleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		cfg, err := svc.SetBattleOracle(r.Context(), caller, req.Oracle)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toConfigResponse(cfg))
	}
}

// transferAdminHandler godoc
// @Summary Transferir admin
// @Description Solo admin. El admin anterior pierde el rol en la misma operación.
// @Tags config
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body transferAdminRequest true "Nuevo admin"
// @Success 200 {object} configResponse
// @Failure 400 {string} string "invalid json / admin vacío"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /config/admin [put]
func transferAdminHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerID(w, r)
		if !ok {
			return
		}

		var req transferAdminRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		cfg, err := svc.TransferAdmin(r.Context(), caller, req.Admin)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toConfigResponse(cfg))
	}
}

// callerID escribe 401 si el request no trae identidad.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return strings.TrimSpace(claims.UserID), true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrConfigNotFound):
		http.Error(w, "registry not bootstrapped", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidOrExpiredClaim):
		http.Error(w, "Invalid or expired hash", http.StatusConflict)
	case errors.Is(err, ErrNotEligible), errors.Is(err, ErrMaxRarity), errors.Is(err, ErrAlreadyClaimed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrCooldownActive):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:             uint64(p.ID),
		Name:           p.Name,
		Attribute:      p.Attribute.String(),
		Rarity:         p.Rarity.String(),
		MetadataRef:    p.MetadataRef,
		Owner:          p.Owner,
		Claimed:        p.Claimed,
		ClaimExpiresAt: optionalTime(p.ClaimExpiresAt),
		Level:          p.Level,
		Experience:     p.Experience,
		BattleCount:    p.BattleCount,
		BattleWins:     p.BattleWins,
		LastBattleAt:   optionalTime(p.LastBattleAt),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toConfigResponse(c Config) configResponse {
	return configResponse{
		Admin:          c.Admin,
		BattleOracle:   c.BattleOracle,
		BattleCooldown: c.BattleCooldown,
		UpdatedAt:      c.UpdatedAt,
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
