package get_financial_reality

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
	"github.com/m04kA/SMC-CourseEngine/internal/service/totals"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	report *totals.Reconciliation
	err    error
}

func (f *fakeService) AnalyzeFinancialReality(context.Context, int64) (*totals.Reconciliation, error) {
	return f.report, f.err
}

func get(h *Handler, id string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id+"/financial-reality", nil)
	r = mux.SetURLVars(r, map[string]string{"bookingId": id})
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandle_DiscrepancyIsData(t *testing.T) {
	svc := &fakeService{report: &totals.Reconciliation{
		BookingID:       9,
		Currency:        "EUR",
		Breakdown:       pricing.BookingBreakdown{BookingID: 9, TotalFinal: 120},
		CalculatedTotal: 120,
		TotalPaid:       90,
		NetBalance:      -30,
		MainDiscrepancy: -30,
		Status:          totals.StatusUnderpaid,
	}}

	w := get(NewHandler(svc, nopLogger{}), "9")
	require.Equal(t, http.StatusOK, w.Code)

	var resp FinancialRealityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsConsistent)
	assert.Equal(t, "underpaid", resp.Status)
	assert.Equal(t, -30.0, resp.MainDiscrepancy)
	assert.Equal(t, 120.0, resp.Breakdown.TotalFinal)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, get(NewHandler(&fakeService{}, nopLogger{}), "abc").Code)
	assert.Equal(t, http.StatusNotFound, get(NewHandler(&fakeService{err: pricing.ErrBookingNotFound}, nopLogger{}), "9").Code)
	assert.Equal(t, http.StatusInternalServerError, get(NewHandler(&fakeService{err: totals.ErrInternal}, nopLogger{}), "9").Code)
}
