package validate_cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourseEngine/internal/service/availability"
	"github.com/m04kA/SMC-CourseEngine/internal/service/capacity"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	items []availability.CartItem
	err   error
}

func (f *fakeService) ValidateCartAvailability(_ context.Context, items []availability.CartItem) (*availability.CartResult, error) {
	f.items = items
	if f.err != nil {
		return nil, f.err
	}
	result := &availability.CartResult{IsAvailable: true}
	for _, item := range items {
		line := availability.CartLineResult{
			SubgroupID: item.SubgroupID,
			Date:       item.Date,
			Requested:  item.Count,
			Remaining:  2,
			Available:  item.Count <= 2,
		}
		if !line.Available {
			result.IsAvailable = false
		}
		result.Details = append(result.Details, line)
	}
	return result, nil
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/availability/cart", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandle_ReportsEachLine(t *testing.T) {
	svc := &fakeService{}
	body := `{"items":[{"subgroupId":1,"date":"2027-01-20","count":1},{"subgroupId":2,"date":"2027-01-21","count":3}]}`

	w := post(NewHandler(svc, nopLogger{}), body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsAvailable)
	require.Len(t, resp.Details, 2)
	assert.True(t, resp.Details[0].Available)
	assert.False(t, resp.Details[1].Available)
	assert.Equal(t, "2027-01-21", resp.Details[1].Date)
	assert.Len(t, svc.items, 2)
}

func TestHandle_Errors(t *testing.T) {
	tooMany := make([]string, 201)
	for i := range tooMany {
		tooMany[i] = `{"subgroupId":1,"date":"2027-01-20"}`
	}

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest},
		{name: "no items", body: `{"items":[]}`, wantStatus: http.StatusBadRequest},
		{name: "too many items", body: `{"items":[` + strings.Join(tooMany, ",") + `]}`, wantStatus: http.StatusBadRequest},
		{name: "missing subgroup", body: `{"items":[{"date":"2027-01-20"}]}`, wantStatus: http.StatusBadRequest},
		{name: "bad date", body: `{"items":[{"subgroupId":1,"date":"tomorrow"}]}`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"items":[{"subgroupId":1,"date":"2027-01-20","x":1}]}`, wantStatus: http.StatusBadRequest},
		{
			name:       "subgroup not found",
			body:       `{"items":[{"subgroupId":9,"date":"2027-01-20"}]}`,
			err:        fmt.Errorf("cart line 0: %w", capacity.ErrSubgroupNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "internal",
			body:       `{"items":[{"subgroupId":9,"date":"2027-01-20"}]}`,
			err:        capacity.ErrInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(NewHandler(&fakeService{err: tt.err}, nopLogger{}), tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
