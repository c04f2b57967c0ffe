// Package api exposes the arena service over a JSON REST interface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/arena"
	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/storage"
)

// Service is the subset of *arena.Service the handlers call.
type Service interface {
	CreateCharacter(ctx context.Context, name, job string) (*character.Character, error)
	ListCharacters(ctx context.Context) ([]*character.Character, error)
	GetCharacter(ctx context.Context, id string) (*character.Character, error)
	UpdateCharacter(ctx context.Context, id string, patch arena.CharacterPatch) (*character.Character, error)
	DeleteCharacter(ctx context.Context, id string) error
	Battle(ctx context.Context, id1, id2 string) (battle.Result, error)
	Health(ctx context.Context) error
}

const (
	healthTimeout = 2 * time.Second

	// maxBodyBytes caps every JSON request body.
	maxBodyBytes = 64 << 10
)

// Handler serves the /api routes.
type Handler struct {
	svc    Service
	logger *zap.Logger
}

// NewRouter builds the mux router with every route mounted under /api and
// request logging applied.
//
// Precondition: svc and logger must be non-nil.
func NewRouter(svc Service, logger *zap.Logger) *mux.Router {
	if svc == nil || logger == nil {
		panic("api.NewRouter: svc and logger must not be nil")
	}
	h := &Handler{svc: svc, logger: logger}

	router := mux.NewRouter()
	router.Use(observability.RequestLogger(logger))

	r := router.PathPrefix("/api").Subrouter()
	r.HandleFunc("/characters", h.createCharacter).Methods(http.MethodPost)
	r.HandleFunc("/characters", h.listCharacters).Methods(http.MethodGet)
	r.HandleFunc("/characters/{id}", h.getCharacter).Methods(http.MethodGet)
	r.HandleFunc("/characters/{id}", h.updateCharacter).Methods(http.MethodPatch)
	r.HandleFunc("/characters/{id}", h.deleteCharacter).Methods(http.MethodDelete)
	r.HandleFunc("/battles", h.battle).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	return router
}

func (h *Handler) createCharacter(w http.ResponseWriter, r *http.Request) {
	var req createCharacterRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := h.svc.CreateCharacter(r.Context(), req.Name, req.Job)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCharacterResponse(c))
}

func (h *Handler) listCharacters(w http.ResponseWriter, r *http.Request) {
	chars, err := h.svc.ListCharacters(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]characterResponse, 0, len(chars))
	for _, c := range chars {
		out = append(out, toCharacterResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getCharacter(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCharacter(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCharacterResponse(c))
}

func (h *Handler) updateCharacter(w http.ResponseWriter, r *http.Request) {
	var req updateCharacterRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateCharacter(r.Context(), mux.Vars(r)["id"], arena.CharacterPatch{
		Name:      req.Name,
		Job:       req.Job,
		CurrentHP: req.CurrentHP,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCharacterResponse(c))
}

func (h *Handler) deleteCharacter(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCharacter(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) battle(w http.ResponseWriter, r *http.Request) {
	var req battleRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Battle(r.Context(), req.Character1ID, req.Character2ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBattleResponse(res))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	if err := h.svc.Health(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON body into dst, writing a 413 when the body exceeds
// maxBodyBytes and a 400 on malformed input.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body: " + err.Error()})
		return false
	}
	return true
}

// statusFor maps service and store errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *arena.ValidationError
	var jerr *character.InvalidJobError
	switch {
	case errors.Is(err, storage.ErrCharacterNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrCharacterNameTaken),
		errors.Is(err, arena.ErrSameCharacter),
		errors.Is(err, arena.ErrCharacterDefeated),
		errors.Is(err, arena.ErrUnresolvable):
		return http.StatusConflict
	case errors.As(err, &verr), errors.As(err, &jerr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
