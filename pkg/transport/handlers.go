package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sigil-dev/sigil/pkg/api"
	"github.com/sigil-dev/sigil/pkg/auth"
	"github.com/sigil-dev/sigil/pkg/auth/token"
	"github.com/sigil-dev/sigil/pkg/observability"
	"github.com/sigil-dev/sigil/pkg/store"
)

// Handler holds the auth components behind the REST endpoints.
type Handler struct {
	registrar *auth.Registrar
	verifier  *auth.Verifier
	codec     *token.Codec
	tokenTTL  time.Duration
	users     auth.UserStore
	logger    *slog.Logger
}

// NewHandler wires the REST endpoints to the auth core.
func NewHandler(registrar *auth.Registrar, verifier *auth.Verifier, codec *token.Codec, tokenTTL time.Duration, users auth.UserStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registrar: registrar,
		verifier:  verifier,
		codec:     codec,
		tokenTTL:  tokenTTL,
		users:     users,
		logger:    logger,
	}
}

// issueToken mints a bearer token for the identity, carrying the role as an
// extra claim.
func (h *Handler) issueToken(identity *auth.Identity) (string, error) {
	return h.codec.Issue(identity.Email, map[string]any{"role": string(identity.Role)}, h.tokenTTL)
}

// handleRegister creates a new identity and returns its first token.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, &api.BadRequestError{Message: "malformed request body"})
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, r, err)
		return
	}

	identity, err := h.registrar.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	tokenStr, err := h.issueToken(identity)
	if err != nil {
		WriteError(w, r, fmt.Errorf("issuing token: %w", err))
		return
	}

	observability.TokensIssuedTotal.WithLabelValues("register").Inc()
	writeJSON(w, http.StatusOK, api.AuthResponse{Token: tokenStr})
}

// handleAuthenticate verifies credentials and returns a fresh token.
func (h *Handler) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req api.AuthenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, &api.BadRequestError{Message: "malformed request body"})
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, r, err)
		return
	}

	identity, err := h.verifier.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	tokenStr, err := h.issueToken(identity)
	if err != nil {
		WriteError(w, r, fmt.Errorf("issuing token: %w", err))
		return
	}

	h.logger.Info("user authenticated", "email", identity.Email)
	observability.TokensIssuedTotal.WithLabelValues("authenticate").Inc()
	writeJSON(w, http.StatusOK, api.AuthResponse{Token: tokenStr})
}

// handleMe returns the profile of the authenticated caller. The route is
// gated by authenticated(), so a principal is always present.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())

	identity, err := h.users.FindByEmail(r.Context(), p.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, r, &auth.NotFoundError{Message: "user not found"})
			return
		}
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.NewUserResponse(identity))
}

// handleListUsers returns all user profiles. ADMIN only.
func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	identities, err := h.users.FindAll(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	out := make([]api.UserResponse, 0, len(identities))
	for _, identity := range identities {
		out = append(out, api.NewUserResponse(identity))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDeleteUser deletes a user by id. ADMIN only; admins cannot delete
// their own account.
func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	id := r.PathValue("id")

	current, err := h.users.FindByEmail(r.Context(), p.Subject)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if current.ID == id {
		WriteError(w, r, &api.BadRequestError{Message: "you cannot delete your own account"})
		return
	}

	target, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, r, &auth.NotFoundError{Message: "user not found"})
			return
		}
		WriteError(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), target); err != nil {
		WriteError(w, r, err)
		return
	}

	h.logger.Info("user deleted", "id", id, "admin", p.Subject)
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: fmt.Sprintf("user %s deleted", id)})
}
