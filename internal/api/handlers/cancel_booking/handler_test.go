package cancel_booking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	cancelBooking "github.com/m04kA/SMC-CourseEngine/internal/usecase/cancel_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	req  *cancelBooking.Request
	resp *cancelBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *cancelBooking.Request) (*cancelBooking.Response, error) {
	f.req = req
	return f.resp, f.err
}

func patch(h *Handler, bookingID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/cancel", reader)
	r = mux.SetURLVars(r, map[string]string{"bookingId": bookingID})
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandle_EmptyBodyCancelsWholeBooking(t *testing.T) {
	uc := &fakeUseCase{resp: &cancelBooking.Response{
		BookingID:      5,
		Status:         domain.BookingStatusCancelled,
		CancelledLines: []*domain.BookingUser{{ID: 1}, {ID: 2}},
	}}

	w := patch(NewHandler(uc, nopLogger{}), "5", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CancelBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int64{1, 2}, resp.CancelledLineIDs)
	assert.Equal(t, int(domain.BookingStatusCancelled), resp.Status)
	assert.Empty(t, uc.req.BookingUserIDs)
}

func TestHandle_PartialCancel(t *testing.T) {
	uc := &fakeUseCase{resp: &cancelBooking.Response{
		BookingID:      5,
		Status:         domain.BookingStatusPartiallyCancelled,
		CancelledLines: []*domain.BookingUser{{ID: 2}},
		ActiveLines:    1,
	}}

	w := patch(NewHandler(uc, nopLogger{}), "5", `{"bookingUserIds":[2],"reason":"болезнь"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{2}, uc.req.BookingUserIDs)
	require.NotNil(t, uc.req.Reason)
	assert.Equal(t, "болезнь", *uc.req.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		bookingID  string
		body       string
		err        error
		wantStatus int
	}{
		{name: "bad id", bookingID: "0", wantStatus: http.StatusBadRequest},
		{name: "bad body", bookingID: "5", body: `{"bookingUserIds":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "reason too long", bookingID: "5", body: `{"reason":"` + strings.Repeat("a", 501) + `"}`, wantStatus: http.StatusBadRequest},
		{name: "not found", bookingID: "5", err: cancelBooking.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "line not found", bookingID: "5", err: cancelBooking.ErrBookingUserNotFound, wantStatus: http.StatusNotFound},
		{name: "already cancelled", bookingID: "5", err: cancelBooking.ErrCannotCancel, wantStatus: http.StatusConflict},
		{name: "internal", bookingID: "5", err: errors.New("db"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := patch(NewHandler(&fakeUseCase{err: tt.err}, nopLogger{}), tt.bookingID, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
