package validate_discount_code

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

	"github.com/m04kA/SMC-CourseEngine/internal/service/discount"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	req    discount.Request
	result *discount.Result
	err    error
}

func (f *fakeService) Validate(_ context.Context, req discount.Request) (*discount.Result, error) {
	f.req = req
	return f.result, f.err
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/discount-codes/validate", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

const body = `{"code":"WINTER10","schoolId":1,"clientId":10,"courseIds":[5],"amount":150}`

func TestHandle_Accepted(t *testing.T) {
	svc := &fakeService{result: &discount.Result{Valid: true, Code: "WINTER10", DiscountCodeID: 4, Amount: 15}}

	w := post(NewHandler(svc, nopLogger{}), body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, 15.0, resp.Amount)
	assert.Equal(t, []int64{5}, svc.req.CourseIDs)
	assert.Equal(t, 150.0, svc.req.Amount)
}

func TestHandle_RejectedIsNotAnError(t *testing.T) {
	svc := &fakeService{result: &discount.Result{Code: "WINTER10", Reason: discount.ReasonExpired}}

	w := post(NewHandler(svc, nopLogger{}), body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, "expired", resp.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "missing code", body: `{"schoolId":1,"clientId":10}`, wantStatus: http.StatusBadRequest},
		{name: "negative amount", body: `{"code":"A","schoolId":1,"clientId":10,"amount":-1}`, wantStatus: http.StatusBadRequest},
		{name: "service rejects input", body: body, err: fmt.Errorf("%w: blank", discount.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "internal", body: body, err: discount.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(NewHandler(&fakeService{err: tt.err}, nopLogger{}), tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
