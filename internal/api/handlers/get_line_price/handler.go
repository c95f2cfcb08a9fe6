package get_line_price

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourseEngine/internal/api/handlers"
	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
)

const (
	msgInvalidBookingUserID = "некорректный ID строки бронирования"
	msgBookingUserNotFound  = "строка бронирования не найдена"
	msgBookingNotFound      = "бронирование не найдено"
	msgCourseNotFound       = "курс не найден"
)

type Handler struct {
	service PricingService
	logger  Logger
}

func NewHandler(service PricingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/booking-users/{bookingUserId}/price
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingUserID, err := handlers.PathID(r, "bookingUserId")
	if err != nil {
		h.logger.Warn("GET /booking-users/{id}/price - Invalid booking user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingUserID)
		return
	}

	price, err := h.service.CalculateLinePrice(r.Context(), bookingUserID)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrBookingUserNotFound):
			h.logger.Warn("GET /booking-users/{id}/price - Booking user not found: id=%d", bookingUserID)
			handlers.RespondNotFound(w, msgBookingUserNotFound)

		case errors.Is(err, pricing.ErrBookingNotFound):
			h.logger.Warn("GET /booking-users/{id}/price - Booking not found: booking_user_id=%d", bookingUserID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, pricing.ErrCourseNotFound):
			h.logger.Warn("GET /booking-users/{id}/price - Course not found: booking_user_id=%d", bookingUserID)
			handlers.RespondNotFound(w, msgCourseNotFound)

		default:
			h.logger.Error("GET /booking-users/{id}/price - Failed to calculate price: id=%d, error=%v", bookingUserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if price.ConfigurationGap {
		h.logger.Warn("GET /booking-users/{id}/price - Price is not configured: id=%d, duration=%s, group=%d",
			bookingUserID, price.Duration, price.GroupSize)
	}

	h.logger.Info("GET /booking-users/{id}/price - Price calculated: id=%d, total=%.2f %s",
		bookingUserID, price.TotalPrice, price.Currency)
	handlers.RespondJSON(w, http.StatusOK, FromLinePrice(price))
}
