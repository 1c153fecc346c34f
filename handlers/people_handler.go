package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/community-health-tech/social-fitness-server/internal/challenge"
	"github.com/community-health-tech/social-fitness-server/middleware"
	"github.com/community-health-tech/social-fitness-server/services"
)

type PeopleHandler struct {
	peopleService *services.PeopleService
}

func NewPeopleHandler(peopleService *services.PeopleService) *PeopleHandler {
	return &PeopleHandler{
		peopleService: peopleService,
	}
}

func (h *PeopleHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	persons, err := h.peopleService.ListPeople(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, persons)
}

func (h *PeopleHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	personID, err := uuid.Parse(mux.Vars(r)["personID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid person id")
		return
	}

	detail, err := h.peopleService.GetPersonDetail(ctx, personID)
	if err != nil {
		respondWithChallengeError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

// GetFamily returns the caller's group with members, roles, and pronouns.
func (h *PeopleHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	person, err := h.peopleService.GetPersonByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Person not found")
		return
	}

	group, err := h.peopleService.GetGroupForPerson(ctx, person.ID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Group not found")
		return
	}

	detail, err := h.peopleService.GetGroupDetail(ctx, group.ID)
	if err != nil {
		respondWithChallengeError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithChallengeError maps the engine error taxonomy onto HTTP codes.
func respondWithChallengeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, challenge.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, challenge.ErrChallengeConflict):
		respondWithError(w, http.StatusConflict, "A challenge is already running or awaiting completion")
	case errors.Is(err, challenge.ErrLadderExhausted):
		respondWithError(w, http.StatusConflict, "No further level is defined for this group")
	case errors.Is(err, challenge.ErrUnsupportedGroup):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, challenge.ErrInvalidDuration):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
