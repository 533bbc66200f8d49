package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revcycle-engine/internal/domain"
)

type stubReconciliationService struct {
	result *domain.ReconciliationResult
	err    error
}

func (s *stubReconciliationService) Reconcile(paymentID, accountID, actorID string) (*domain.ReconciliationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newReconcileRouter(svc *stubReconciliationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/reconcile", NewReconciliationHandler(svc).Reconcile)
	return router
}

func postReconcile(t *testing.T, router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var validRequest = ReconcileRequest{
	PaymentID: "11111111-1111-1111-1111-111111111111",
	AccountID: "22222222-2222-2222-2222-222222222222",
}

func TestReconcileHandler_Success(t *testing.T) {
	svc := &stubReconciliationService{
		result: &domain.ReconciliationResult{
			PaymentID:     validRequest.PaymentID,
			AccountID:     validRequest.AccountID,
			AmountMatched: decimal.NewFromInt(8000),
			FullyMatched:  false,
		},
	}

	w := postReconcile(t, newReconcileRouter(svc), validRequest)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"amount_matched":"8000"`)
}

func TestReconcileHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{domain.ErrPaymentNotFound, http.StatusNotFound},
		{domain.ErrAccountNotFound, http.StatusNotFound},
		{domain.ErrPaymentAlreadyReconciled, http.StatusConflict},
		{domain.ErrConcurrentUpdate, http.StatusConflict},
		{domain.ErrNoAvailableBalance, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrCriticalInconsistency), http.StatusInternalServerError},
		{errors.New("database unreachable"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := postReconcile(t, newReconcileRouter(&stubReconciliationService{err: tt.err}), validRequest)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestReconcileHandler_InvalidBody(t *testing.T) {
	w := postReconcile(t, newReconcileRouter(&stubReconciliationService{}), map[string]string{
		"payment_id": "not-a-uuid",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
