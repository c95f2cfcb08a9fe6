package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/internal/service/discount"
	createBooking "github.com/m04kA/SMC-CourseEngine/internal/usecase/create_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	req  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.req = req
	return f.resp, f.err
}

const validBody = `{
	"schoolId": 1,
	"clientMainId": 10,
	"hasCancellationInsurance": true,
	"discountCode": "WINTER10",
	"lines": [
		{"clientId": 10, "courseId": 5, "courseDateId": 50, "courseSubgroupId": 7},
		{"clientId": 11, "courseId": 6, "courseDateId": 60, "monitorId": 3, "groupId": 1, "hourStart": "10:00", "hourEnd": "11:30"}
	]
}`

func post(h *Handler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandle_Created(t *testing.T) {
	subgroup := int64(7)
	uc := &fakeUseCase{resp: &createBooking.Response{
		Booking: &domain.Booking{ID: 100, SchoolID: 1, Status: domain.BookingStatusActive, Currency: "EUR", PriceTotal: 135},
		Lines: []*domain.BookingUser{{
			ID: 1, ClientID: 10, CourseID: 5, CourseSubgroupID: &subgroup,
			Date: time.Date(2027, 1, 20, 0, 0, 0, 0, time.UTC), HourStart: "09:00", HourEnd: "12:00", Price: 150,
		}},
	}}

	w := post(NewHandler(uc, nopLogger{}), validBody)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, 135.0, resp.PriceTotal)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "2027-01-20", resp.Lines[0].Date)

	require.NotNil(t, uc.req)
	require.Len(t, uc.req.Lines, 2)
	assert.Nil(t, uc.req.Lines[0].HourStart)
	require.NotNil(t, uc.req.Lines[1].HourEnd)
	assert.Equal(t, "11:30", uc.req.Lines[1].HourEnd.String())
	assert.Equal(t, "WINTER10", *uc.req.DiscountCode)
}

func TestHandle_CapacityExceededDetails(t *testing.T) {
	uc := &fakeUseCase{err: fmt.Errorf("tx: %w", &createBooking.CapacityExceededError{
		SubgroupID: 7, Date: time.Date(2027, 1, 20, 0, 0, 0, 0, time.UTC), Max: 2, Occupied: 2, Requested: 1,
	})}

	w := post(NewHandler(uc, nopLogger{}), validBody)
	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Error   string          `json:"error"`
		Details CapacityDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, msgCapacityExceeded, resp.Error)
	assert.Equal(t, CapacityDetails{SubgroupID: 7, Date: "2027-01-20", Max: 2, Occupied: 2, Requested: 1}, resp.Details)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest},
		{name: "no lines", body: `{"schoolId":1,"clientMainId":10,"lines":[]}`, wantStatus: http.StatusBadRequest},
		{name: "negative reduction", body: `{"schoolId":1,"clientMainId":10,"priceReduction":-5,"lines":[{"clientId":1,"courseId":1,"courseDateId":1}]}`, wantStatus: http.StatusBadRequest},
		{name: "bad time", body: `{"schoolId":1,"clientMainId":10,"lines":[{"clientId":1,"courseId":1,"courseDateId":1,"hourStart":"25:99"}]}`, wantStatus: http.StatusBadRequest},
		{name: "discount rejected", body: validBody, err: &createBooking.InvalidDiscountCodeError{Code: "WINTER10", Reason: discount.ReasonExpired}, wantStatus: http.StatusUnprocessableEntity},
		{name: "course not found", body: validBody, err: createBooking.ErrCourseNotFound, wantStatus: http.StatusNotFound},
		{name: "course date not found", body: validBody, err: createBooking.ErrCourseDateNotFound, wantStatus: http.StatusNotFound},
		{name: "subgroup not found", body: validBody, err: createBooking.ErrSubgroupNotFound, wantStatus: http.StatusNotFound},
		{name: "extra not found", body: validBody, err: createBooking.ErrExtraNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid input", body: validBody, err: createBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "concurrent update", body: validBody, err: fmt.Errorf("%w: %w", createBooking.ErrConcurrentUpdate, &pq.Error{Code: "40001"}), wantStatus: http.StatusConflict},
		{name: "internal", body: validBody, err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(NewHandler(&fakeUseCase{err: tt.err}, nopLogger{}), tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
