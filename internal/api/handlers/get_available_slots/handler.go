package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-CourseEngine/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-CourseEngine/internal/usecase/get_available_slots"
)

const (
	msgInvalidSubgroupID = "некорректный ID подгруппы"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidCount      = "некорректное количество участников"
	msgSubgroupNotFound  = "подгруппа не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/subgroups/{subgroupId}/availability
// Query params: date (required, YYYY-MM-DD), count (optional, default 1)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subgroupID, err := handlers.PathID(r, "subgroupId")
	if err != nil {
		h.logger.Warn("GET /subgroups/{id}/availability - Invalid subgroup ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubgroupID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /subgroups/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /subgroups/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	count := 0
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		count, err = strconv.Atoi(countStr)
		if err != nil || count <= 0 {
			h.logger.Warn("GET /subgroups/{id}/availability - Invalid count: %q", countStr)
			handlers.RespondBadRequest(w, msgInvalidCount)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		SubgroupID: subgroupID,
		Date:       date,
		Count:      count,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrSubgroupNotFound):
			h.logger.Warn("GET /subgroups/{id}/availability - Subgroup not found: subgroup_id=%d", subgroupID)
			handlers.RespondNotFound(w, msgSubgroupNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /subgroups/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCount)

		default:
			h.logger.Error("GET /subgroups/{id}/availability - Failed to get availability: subgroup_id=%d, error=%v",
				subgroupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /subgroups/{id}/availability - Availability retrieved: subgroup_id=%d, date=%s, available=%d",
		subgroupID, dateStr, result.AvailableSlots)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
