package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-CourseEngine/internal/usecase/get_available_slots"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	req  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.req = req
	return f.resp, f.err
}

func serve(h *Handler, subgroupID, query string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/subgroups/"+subgroupID+"/availability?"+query, nil)
	r = mux.SetURLVars(r, map[string]string{"subgroupId": subgroupID})
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandle_OK(t *testing.T) {
	date := time.Date(2027, 1, 20, 0, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		SubgroupID: 7, Date: date, AvailableSlots: 999, Unlimited: true, Requested: 3, IsAvailable: true,
	}}

	w := serve(NewHandler(uc, nopLogger{}), "7", "date=2027-01-20&count=3")
	require.Equal(t, http.StatusOK, w.Code)

	var body AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 999, body.AvailableSlots)
	assert.True(t, body.Unlimited)
	assert.Equal(t, "2027-01-20", body.Date)
	assert.Equal(t, 3, uc.req.Count)
	assert.Equal(t, int64(7), uc.req.SubgroupID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		subgroupID string
		query      string
		err        error
		wantStatus int
	}{
		{name: "bad id", subgroupID: "abc", query: "date=2027-01-20", wantStatus: http.StatusBadRequest},
		{name: "missing date", subgroupID: "7", wantStatus: http.StatusBadRequest},
		{name: "bad date", subgroupID: "7", query: "date=20-01-2027", wantStatus: http.StatusBadRequest},
		{name: "bad count", subgroupID: "7", query: "date=2027-01-20&count=-1", wantStatus: http.StatusBadRequest},
		{name: "not found", subgroupID: "7", query: "date=2027-01-20", err: getAvailableSlots.ErrSubgroupNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", subgroupID: "7", query: "date=2027-01-20", err: errors.New("db"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(NewHandler(&fakeUseCase{err: tt.err}, nopLogger{}), tt.subgroupID, tt.query)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
