package cancel_booking

import (
	cancelBooking "github.com/m04kA/SMC-CourseEngine/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model. Пустое тело отменяет всё бронирование
type CancelBookingRequest struct {
	BookingUserIDs []int64 `json:"bookingUserIds,omitempty" validate:"omitempty,max=200,dive,gt=0"`
	Reason         *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	BookingID        int64   `json:"bookingId"`
	Status           int     `json:"status"`
	CancelledLineIDs []int64 `json:"cancelledLineIds"`
	ActiveLines      int     `json:"activeLines"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	ids := make([]int64, 0, len(resp.CancelledLines))
	for _, line := range resp.CancelledLines {
		ids = append(ids, line.ID)
	}
	return &CancelBookingResponse{
		BookingID:        resp.BookingID,
		Status:           int(resp.Status),
		CancelledLineIDs: ids,
		ActiveLines:      resp.ActiveLines,
	}
}
