package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/community-health-tech/social-fitness-server/middleware"
	"github.com/community-health-tech/social-fitness-server/services"
)

type FitnessHandler struct {
	fitnessService *services.FitnessService
	peopleService  *services.PeopleService
}

func NewFitnessHandler(fitnessService *services.FitnessService, peopleService *services.PeopleService) *FitnessHandler {
	return &FitnessHandler{
		fitnessService: fitnessService,
		peopleService:  peopleService,
	}
}

// GetFamilyActivities returns every member's gap-filled 7-day activity
// series starting at the date in the URL.
func (h *FitnessHandler) GetFamilyActivities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	startDate, err := time.Parse("2006-01-02", mux.Vars(r)["startDate"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
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

	activities, err := h.fitnessService.GetGroupFitness(ctx, group.ID, startDate)
	if err != nil {
		respondWithChallengeError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, activities)
}
