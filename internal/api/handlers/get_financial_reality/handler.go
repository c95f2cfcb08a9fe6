package get_financial_reality

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

// Handle GET /api/v1/bookings/{bookingId}/financial-reality
// Расхождение оплат с расчётом возвращается как данные со статусом 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/financial-reality - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	report, err := h.service.AnalyzeFinancialReality(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, pricing.ErrBookingNotFound) {
			h.logger.Warn("GET /bookings/{id}/financial-reality - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /bookings/{id}/financial-reality - Failed to reconcile: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/{id}/financial-reality - Reconciled: booking_id=%d, status=%s", bookingID, report.Status)
	handlers.RespondJSON(w, http.StatusOK, FromReconciliation(report))
}
