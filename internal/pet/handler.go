package pet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"

	"adopet-api/internal/auth"
)

const maxJSONBodyBytes = 1 << 20

const adoptionMessage = "A Adopet Brunna fica feliz em telo junto nessa jornada Não compre, Adote"

type Handler struct {
	store PetStore
}

func NewHandler(store PetStore) *Handler {
	return &Handler{store: store}
}

func (h *Handler) ListPets(w http.ResponseWriter, r *http.Request) {
	available, err := h.availablePets(r.Context())
	if err != nil {
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "Erro interno", "Erro ao listar pets")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Pets disponíveis para adoção",
		"pets":    available,
	})
}

func (h *Handler) GetPet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Pet não encontrado", "Pet com o ID especificado não foi encontrado")
		return
	}

	p, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPetNotFound) {
			writeError(w, http.StatusNotFound, "Pet não encontrado", "Pet com o ID especificado não foi encontrado")
			return
		}
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "Erro interno", "Erro ao buscar pet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Pet encontrado com sucesso",
		"pet":     p,
	})
}

// SearchPets filters the available pets with case-insensitive substring
// matches on species and breed.
func (h *Handler) SearchPets(w http.ResponseWriter, r *http.Request) {
	species := r.URL.Query().Get("species")
	breed := r.URL.Query().Get("breed")

	available, err := h.availablePets(r.Context())
	if err != nil {
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "Erro interno", "Erro ao realizar busca")
		return
	}

	filtered := make([]Pet, 0, len(available))
	for _, p := range available {
		if species != "" && !strings.Contains(strings.ToLower(p.Species), strings.ToLower(species)) {
			continue
		}
		if breed != "" && !strings.Contains(strings.ToLower(p.Breed), strings.ToLower(breed)) {
			continue
		}
		filtered = append(filtered, p)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Pets encontrados: %d", len(filtered)),
		"filters": map[string]string{"species": species, "breed": breed},
		"pets":    filtered,
	})
}

type adoptRequest struct {
	PetID int64 `json:"petId"`
}

// AdoptPet acknowledges an adoption. Nothing is persisted; the association
// lives only in the response.
func (h *Handler) AdoptPet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	var body adoptRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PetID == 0 {
		writeError(w, http.StatusBadRequest, "Pet não escolhido", "Pet não escolhido, deseja continuar essa ação")
		return
	}

	p, err := h.store.FindByID(r.Context(), body.PetID)
	if err != nil {
		if errors.Is(err, ErrPetNotFound) {
			writeError(w, http.StatusNotFound, "Pet não encontrado", "Pet com o ID especificado não foi encontrado")
			return
		}
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "Erro interno", "Erro ao processar adoção")
		return
	}

	if !p.IsAvailable {
		writeError(w, http.StatusBadRequest, "Pet não disponível", "Este pet não está mais disponível para adoção")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": adoptionMessage,
		"pet":     p.Summary(),
	})
}

// Home greets the authenticated user with the available pets.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token não fornecido", "É necessário fornecer um token de autenticação")
		return
	}

	available, err := h.availablePets(r.Context())
	if err != nil {
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "Erro interno", "Erro ao carregar home de adoção")
		return
	}

	summaries := make([]Summary, 0, len(available))
	for _, p := range available {
		summaries = append(summaries, p.Summary())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"message":        "Bem-vindo à home de adoção de pets!",
		"welcomeMessage": "A Adopet Brunna fica feliz em telo junto nessa jornada. Não compre, Adote!",
		"user": map[string]any{
			"id":    claims.ID,
			"name":  claims.Name,
			"email": claims.Email,
		},
		"availablePets": summaries,
	})
}

func (h *Handler) availablePets(ctx context.Context) ([]Pet, error) {
	pets, err := h.store.List(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]Pet, 0, len(pets))
	for _, p := range pets {
		if p.IsAvailable {
			available = append(available, p)
		}
	}
	return available, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   code,
		"message": message,
	})
}
