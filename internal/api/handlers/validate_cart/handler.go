package validate_cart

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourseEngine/internal/api/handlers"
	"github.com/m04kA/SMC-CourseEngine/internal/service/capacity"
)

const (
	msgInvalidRequest   = "некорректное тело запроса"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgSubgroupNotFound = "подгруппа не найдена"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/availability/cart
// Проверка без блокировок: строки корзины проверяются независимо друг от друга
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CartRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability/cart - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	items, err := req.ToCartItems(handlers.ParseDate)
	if err != nil {
		h.logger.Warn("POST /availability/cart - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.ValidateCartAvailability(r.Context(), items)
	if err != nil {
		switch {
		case errors.Is(err, capacity.ErrSubgroupNotFound), errors.Is(err, capacity.ErrCourseNotFound):
			h.logger.Warn("POST /availability/cart - Subgroup not found: %v", err)
			handlers.RespondNotFound(w, msgSubgroupNotFound)

		default:
			h.logger.Error("POST /availability/cart - Failed to validate cart: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability/cart - Cart validated: items=%d, available=%t", len(items), result.IsAvailable)
	handlers.RespondJSON(w, http.StatusOK, FromCartResult(result))
}
