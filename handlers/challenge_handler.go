package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/community-health-tech/social-fitness-server/internal/challenge"
	"github.com/community-health-tech/social-fitness-server/internal/people"
	"github.com/community-health-tech/social-fitness-server/middleware"
	"github.com/community-health-tech/social-fitness-server/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	peopleService    *services.PeopleService
}

func NewChallengeHandler(challengeService *services.ChallengeService, peopleService *services.PeopleService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		peopleService:    peopleService,
	}
}

// GetChallenges returns the group's challenge view model: its status plus
// the available candidate set or the current challenge with progress.
func (h *ChallengeHandler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	group, ok := h.callerGroup(ctx, w)
	if !ok {
		return
	}

	view, err := h.challengeService.GetChallengeView(ctx, group.ID)
	if err != nil {
		respondWithChallengeError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

type createChallengeRequest struct {
	Goal               int                                          `json:"goal"`
	Unit               challenge.Unit                               `json:"unit"`
	UnitDuration       challenge.Duration                           `json:"unit_duration"`
	TotalDuration      challenge.Duration                           `json:"total_duration"`
	LevelID            uuid.UUID                                    `json:"level_id"`
	StartDatetimeUTC   *time.Time                                   `json:"start_datetime_utc,omitempty"`
	ChallengesByPerson map[uuid.UUID]challenge.CreateChallengeInput `json:"challenges_by_person,omitempty"`
}

// CreateChallenge starts a challenge from a chosen candidate. A body with
// challenges_by_person creates the individualized variant.
func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	group, ok := h.callerGroup(ctx, w)
	if !ok {
		return
	}

	var req createChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("CreateChallenge Handler: Failed to decode request body: %v", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var gc *challenge.GroupChallenge
	var err error
	if len(req.ChallengesByPerson) > 0 {
		gc, err = h.challengeService.CreateIndividualized(ctx, group.ID, challenge.IndividualizedCreateInput{
			TotalDuration:      req.TotalDuration,
			LevelID:            req.LevelID,
			StartDatetimeUTC:   req.StartDatetimeUTC,
			ChallengesByPerson: req.ChallengesByPerson,
		})
	} else {
		gc, err = h.challengeService.CreateChallenge(ctx, group.ID, challenge.CreateChallengeInput{
			Goal:             req.Goal,
			Unit:             req.Unit,
			UnitDuration:     req.UnitDuration,
			TotalDuration:    req.TotalDuration,
			LevelID:          req.LevelID,
			StartDatetimeUTC: req.StartDatetimeUTC,
		})
	}
	if err != nil {
		respondWithChallengeError(w, err)
		return
	}

	view, err := h.challengeService.BuildNewChallengeView(ctx, *gc)
	if err != nil {
		respondWithChallengeError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, view)
}

// CompleteChallenge stamps the latest non-completed challenge as done.
func (h *ChallengeHandler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	group, ok := h.callerGroup(ctx, w)
	if !ok {
		return
	}

	gc, err := h.challengeService.SetCompleted(ctx, group.ID)
	if err != nil {
		respondWithChallengeError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, gc)
}

// callerGroup resolves the authenticated Clerk user to their group.
func (h *ChallengeHandler) callerGroup(ctx context.Context, w http.ResponseWriter) (*people.Group, bool) {
	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return nil, false
	}

	person, err := h.peopleService.GetPersonByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Person not found")
		return nil, false
	}

	group, err := h.peopleService.GetGroupForPerson(ctx, person.ID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Group not found")
		return nil, false
	}

	return group, true
}
