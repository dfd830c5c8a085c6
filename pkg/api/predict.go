package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/SMUK0/RandomForest/pkg/core/model"
	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
	"github.com/SMUK0/RandomForest/pkg/core/services"
)

var validate = validator.New()

// predictRequest is the wire shape of a slot-prediction call.
type predictRequest struct {
	Weeks            int                    `json:"weeks" validate:"min=1"`
	TopK             int                    `json:"top_k" validate:"min=1"`
	Priorities       string                 `json:"priorities" validate:"required"`
	Age              int                    `json:"age" validate:"min=0"`
	DaysSinceLast    int                    `json:"days_since_last" validate:"min=0"`
	PrefersAfternoon bool                   `json:"prefers_afternoon"`
	PatientWindows   []services.WindowInput `json:"patient_availability" validate:"required,min=1"`
	ProviderWindows  []services.WindowInput `json:"provider_availability"`
}

type predictedSlotResponse struct {
	Priority string  `json:"priority"`
	Date     string  `json:"date"`
	Weekday  int     `json:"weekday"`
	Hour     string  `json:"hour"`
	Score    float64 `json:"score"`
}

type predictResponse struct {
	Slots []predictedSlotResponse `json:"slots"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handlePredictSlots(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	result, err := services.PredictSlots(s.scorer, s.logger, s.slots, services.PredictRequest{
		Weeks:            req.Weeks,
		TopK:             req.TopK,
		Priorities:       req.Priorities,
		Age:              req.Age,
		DaysSinceLast:    req.DaysSinceLast,
		PrefersAfternoon: req.PrefersAfternoon,
		PatientWindows:   req.PatientWindows,
		ProviderWindows:  req.ProviderWindows,
	})
	if err != nil {
		var upErr *model.UnknownPriorityError
		var vErr *scheduler.ValidationError
		switch {
		case errors.As(err, &upErr), errors.As(err, &vErr):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		default:
			s.logger.Error("slot prediction failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "slot prediction failed"})
		}
		return
	}

	if len(result.Slots) == 0 {
		msg := "no slots satisfy patient and provider availability"
		if result.Reason == scheduler.ReasonAllConflicting {
			msg = "candidate slots exist but every one conflicts with the calendar"
		}
		writeJSON(w, http.StatusNotFound, errorResponse{Error: msg, Reason: string(result.Reason)})
		return
	}

	resp := predictResponse{Slots: make([]predictedSlotResponse, 0, len(result.Slots))}
	for _, slot := range result.Slots {
		resp.Slots = append(resp.Slots, predictedSlotResponse{
			Priority: string(slot.Priority),
			Date:     slot.Start.Format("2006-01-02"),
			Weekday:  slot.Weekday,
			Hour:     slot.Start.Format("15:04"),
			Score:    slot.Score,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
