package get_booking_total

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourseEngine/internal/api/handlers"
	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
)

type Handler struct {
	service TotalsService
	logger  Logger
}

func NewHandler(service TotalsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/total
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/total - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	breakdown, err := h.service.CalculateBookingTotal(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, pricing.ErrBookingNotFound) {
			h.logger.Warn("GET /bookings/{id}/total - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /bookings/{id}/total - Failed to calculate total: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/{id}/total - Total calculated: booking_id=%d, total=%.2f %s",
		bookingID, breakdown.TotalFinal, breakdown.Currency)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromBreakdown(breakdown))
}
