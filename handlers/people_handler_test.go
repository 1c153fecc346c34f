package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/community-health-tech/social-fitness-server/internal/challenge"
)

func TestRespondWithChallengeError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", challenge.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("person lookup: %w", challenge.ErrNotFound), http.StatusNotFound},
		{"conflict", challenge.ErrChallengeConflict, http.StatusConflict},
		{"ladder exhausted", challenge.ErrLadderExhausted, http.StatusConflict},
		{"unsupported group", challenge.ErrUnsupportedGroup, http.StatusUnprocessableEntity},
		{"invalid duration", fmt.Errorf("duration %q: %w", "30m", challenge.ErrInvalidDuration), http.StatusBadRequest},
		{"unknown", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			respondWithChallengeError(rr, tc.err)

			if rr.Code != tc.wantCode {
				t.Errorf("expected status %d, got %d", tc.wantCode, rr.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("expected JSON error body: %v", err)
			}
			if body["error"] == "" {
				t.Error("expected an error message in the body")
			}
		})
	}
}

func TestRespondWithJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	respondWithJSON(rr, http.StatusCreated, map[string]int{"count": 3})

	if rr.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if rr.Body.String() != `{"count":3}` {
		t.Errorf("unexpected body %q", rr.Body.String())
	}
}
