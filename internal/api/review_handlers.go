package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jswierad/memodeck/internal/errors"
	"github.com/jswierad/memodeck/internal/logger"
	"github.com/jswierad/memodeck/internal/scheduler"
)

type gradeRequest struct {
	Grade any `json:"grade"`
}

type commentRequest struct {
	Comment *string `json:"comment" validate:"required"`
}

// pairIDs parses the {userID} and {cardID} route parameters.
func pairIDs(r *http.Request) (int64, int64, error) {
	userID, err := idParam(r, "userID")
	if err != nil {
		return 0, 0, err
	}
	cardID, err := idParam(r, "cardID")
	if err != nil {
		return 0, 0, err
	}
	return userID, cardID, nil
}

// parseGrade extracts the grade from an optional JSON body. A missing body or
// field falls back to the configured default. Strings and fractional numbers
// are rejected before the engine is called.
func (s *Server) parseGrade(r *http.Request) (int, error) {
	var req gradeRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		if err == io.EOF {
			return s.DefaultGrade, nil
		}
		return 0, errors.NewBadRequestError("invalid JSON body")
	}

	switch v := req.Grade.(type) {
	case nil:
		return s.DefaultGrade, nil
	case json.Number:
		g, err := scheduler.ParseGradeNumber(v)
		if err != nil {
			return 0, err
		}
		return int(g), nil
	default:
		return 0, errors.NewGradeTypeError(v)
	}
}

func (s *Server) handleMemorize(w http.ResponseWriter, r *http.Request) {
	userID, cardID, err := pairIDs(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	grade, err := s.parseGrade(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log := logger.FromContext(r.Context())
	log.Debug("memorize request: user_id=%d, card_id=%d, grade=%d", userID, cardID, grade)

	rec, err := s.ReviewService.Memorize(r.Context(), userID, cardID, grade)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, rec)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	userID, cardID, err := pairIDs(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	grade, err := s.parseGrade(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log := logger.FromContext(r.Context())
	log.Debug("review request: user_id=%d, card_id=%d, grade=%d", userID, cardID, grade)

	rec, err := s.ReviewService.Review(r.Context(), userID, cardID, grade)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	userID, cardID, err := pairIDs(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ReviewService.Forget(r.Context(), userID, cardID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	userID, cardID, err := pairIDs(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	projections, err := s.ReviewService.Simulate(r.Context(), userID, cardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"projections": projections})
}

func (s *Server) handleAddToCram(w http.ResponseWriter, r *http.Request) {
	userID, cardID, err := pairIDs(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	changed, err := s.ReviewService.AddToCram(r.Context(), userID, cardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"crammed": true, "changed": changed})
}

func (s *Server) handleRemoveFromCram(w http.ResponseWriter, r *http.Request) {
	userID, cardID, err := pairIDs(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	changed, err := s.ReviewService.RemoveFromCram(r.Context(), userID, cardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"crammed": false, "changed": changed})
}

func (s *Server) handleSetComment(w http.ResponseWriter, r *http.Request) {
	userID, cardID, err := pairIDs(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	rec, err := s.ReviewService.SetComment(r.Context(), userID, cardID, *req.Comment)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleDueQueue(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	records, err := s.ReviewService.DueQueue(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleCramQueue(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	records, err := s.ReviewService.CramQueue(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	days := intQuery(r, "days", 14)
	schedule, err := s.ReviewService.Schedule(r.Context(), userID, days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"schedule": schedule})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	stats, err := s.ReviewService.Stats(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stats)
}
