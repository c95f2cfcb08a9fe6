package validate_discount_code

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourseEngine/internal/api/handlers"
	"github.com/m04kA/SMC-CourseEngine/internal/service/discount"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCode        = "некорректный промокод"
)

type Handler struct {
	service DiscountService
	logger  Logger
}

func NewHandler(service DiscountService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/discount-codes/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /discount-codes/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Validate(r.Context(), req.ToServiceRequest())
	if err != nil {
		if errors.Is(err, discount.ErrInvalidInput) {
			h.logger.Warn("POST /discount-codes/validate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCode)
			return
		}
		h.logger.Error("POST /discount-codes/validate - Failed to validate code: school_id=%d, error=%v", req.SchoolID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /discount-codes/validate - Code checked: school_id=%d, client_id=%d, valid=%t, reason=%s",
		req.SchoolID, req.ClientID, result.Valid, result.Reason)
	handlers.RespondJSON(w, http.StatusOK, FromResult(result))
}
