package get_booking_total

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourseEngine/internal/api/handlers"
	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	breakdown *pricing.BookingBreakdown
	err       error
}

func (f *fakeService) CalculateBookingTotal(context.Context, int64) (*pricing.BookingBreakdown, error) {
	return f.breakdown, f.err
}

func get(h *Handler, id string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id+"/total", nil)
	r = mux.SetURLVars(r, map[string]string{"bookingId": id})
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{breakdown: &pricing.BookingBreakdown{
		BookingID: 9, Currency: "EUR", ActiveLines: 3, Subtotal: 150, PriceReduction: 30, TotalFinal: 120,
		Lines: []pricing.LinePrice{{BookingUserID: 1, CoveredLineIDs: []int64{1, 2, 3}, TotalPrice: 150}},
	}}

	w := get(NewHandler(svc, nopLogger{}), "9")
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.BreakdownResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 120.0, resp.TotalFinal)
	assert.Equal(t, 30.0, resp.PriceReduction)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, []int64{1, 2, 3}, resp.Lines[0].CoveredLineIDs)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, get(NewHandler(&fakeService{}, nopLogger{}), "-1").Code)

	notFound := &fakeService{err: fmt.Errorf("load: %w", pricing.ErrBookingNotFound)}
	assert.Equal(t, http.StatusNotFound, get(NewHandler(notFound, nopLogger{}), "9").Code)

	internal := &fakeService{err: pricing.ErrInternal}
	assert.Equal(t, http.StatusInternalServerError, get(NewHandler(internal, nopLogger{}), "9").Code)
}
