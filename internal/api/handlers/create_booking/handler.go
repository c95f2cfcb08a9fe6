package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourseEngine/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-CourseEngine/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTime         = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInput        = "некорректные данные бронирования"
	msgCapacityExceeded    = "недостаточно свободных мест в подгруппе"
	msgConcurrentUpdate    = "бронирование не прошло из-за параллельных изменений, повторите запрос"
	msgInvalidDiscountCode = "промокод не может быть применён"
	msgCourseNotFound      = "курс не найден"
	msgCourseDateNotFound  = "дата курса не найдена"
	msgSubgroupNotFound    = "подгруппа не найдена"
	msgExtraNotFound       = "дополнительная услуга не найдена"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var capacityErr *createBooking.CapacityExceededError
		var discountErr *createBooking.InvalidDiscountCodeError

		switch {
		case errors.As(err, &capacityErr):
			h.logger.Warn("POST /bookings - Capacity exceeded: school_id=%d, %v", req.SchoolID, capacityErr)
			handlers.RespondErrorWithDetails(w, http.StatusConflict, msgCapacityExceeded, fromCapacityError(capacityErr))

		case errors.Is(err, createBooking.ErrConcurrentUpdate):
			h.logger.Warn("POST /bookings - Concurrent update: school_id=%d, %v", req.SchoolID, err)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		case errors.As(err, &discountErr):
			h.logger.Warn("POST /bookings - Discount code rejected: school_id=%d, code=%q, reason=%s",
				req.SchoolID, discountErr.Code, discountErr.Reason)
			handlers.RespondErrorWithDetails(w, http.StatusUnprocessableEntity, msgInvalidDiscountCode,
				map[string]string{"code": discountErr.Code, "reason": string(discountErr.Reason)})

		case errors.Is(err, createBooking.ErrInvalidDiscountCode):
			h.logger.Warn("POST /bookings - Invalid discount code: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDiscountCode)

		case errors.Is(err, createBooking.ErrCourseNotFound):
			h.logger.Warn("POST /bookings - Course not found: school_id=%d, %v", req.SchoolID, err)
			handlers.RespondNotFound(w, msgCourseNotFound)

		case errors.Is(err, createBooking.ErrCourseDateNotFound):
			h.logger.Warn("POST /bookings - Course date not found: school_id=%d, %v", req.SchoolID, err)
			handlers.RespondNotFound(w, msgCourseDateNotFound)

		case errors.Is(err, createBooking.ErrSubgroupNotFound):
			h.logger.Warn("POST /bookings - Subgroup not found: school_id=%d, %v", req.SchoolID, err)
			handlers.RespondNotFound(w, msgSubgroupNotFound)

		case errors.Is(err, createBooking.ErrExtraNotFound):
			h.logger.Warn("POST /bookings - Extra not found: school_id=%d, %v", req.SchoolID, err)
			handlers.RespondNotFound(w, msgExtraNotFound)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: school_id=%d, client_id=%d, error=%v",
				req.SchoolID, req.ClientMainID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: id=%d, school_id=%d, lines=%d, total=%.2f %s",
		result.Booking.ID, result.Booking.SchoolID, len(result.Lines), result.Booking.PriceTotal, result.Booking.Currency)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
