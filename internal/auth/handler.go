package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/getsentry/sentry-go"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const maxJSONBodyBytes = 1 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	body.Email = strings.TrimSpace(body.Email)
	body.Name = strings.TrimSpace(body.Name)
	if body.Email == "" || body.Password == "" || body.Name == "" {
		writeError(w, http.StatusBadRequest, "Campos obrigatórios", "Email, senha e nome são obrigatórios")
		return
	}
	if !emailRegex.MatchString(body.Email) {
		writeError(w, http.StatusBadRequest, "Email inválido", "Formato de email inválido")
		return
	}

	user, err := h.service.Register(r.Context(), body.Email, body.Password, body.Name)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeError(w, http.StatusConflict, "Usuário já existe", "Já existe um usuário com este email")
			return
		}
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "Erro interno", "Erro ao criar usuário")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Usuário criado com sucesso",
		"user":    user,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Campos obrigatórios", "Email e senha são obrigatórios")
		return
	}
	if !emailRegex.MatchString(body.Email) {
		writeError(w, http.StatusBadRequest, "Email inválido", "Formato de email inválido")
		return
	}

	token, user, err := h.service.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Credenciais inválidas", "Usuário ou senha inválidos, tente novamente")
		case errors.Is(err, ErrAccountLocked):
			writeError(w, http.StatusLocked, "Usuário bloqueado", "Usuário bloqueado por múltiplas tentativas de login. Tente novamente em 15 minutos.")
		default:
			sentry.CaptureException(err)
			writeError(w, http.StatusInternalServerError, "Erro interno", "Erro ao realizar login")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login realizado com sucesso",
		"token":   token,
		"user":    user,
	})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body resetPasswordRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || body.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Campos obrigatórios", "Email e nova senha são obrigatórios")
		return
	}
	if !emailRegex.MatchString(body.Email) {
		writeError(w, http.StatusBadRequest, "Email inválido", "Formato de email inválido")
		return
	}

	if err := h.service.ResetPassword(r.Context(), body.Email, body.NewPassword); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "Usuário não encontrado", "Não foi encontrado um usuário com este email")
			return
		}
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "Erro interno", "Erro ao alterar senha")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Senha alterada com sucesso",
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Campos obrigatórios", "Corpo da requisição inválido")
		return false
	}
	return true
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
