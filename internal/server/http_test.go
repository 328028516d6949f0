package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/omniorder/order-service/internal/inventory"
	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/internal/order"
	"github.com/omniorder/order-service/internal/order/dto"
	"github.com/omniorder/order-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrders struct {
	placeErr  error
	placed    *dto.PlaceOrderInput
	statusErr error
}

func (s *stubOrders) PlaceOrder(_ context.Context, input *dto.PlaceOrderInput) (*model.Order, error) {
	s.placed = input
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	return &model.Order{BaseModel: model.BaseModel{ID: "o1"}, UserID: input.UserID, Status: model.OrderStatusPending}, nil
}

func (s *stubOrders) CancelOrder(_ context.Context, orderID string) (*model.Order, error) {
	return &model.Order{BaseModel: model.BaseModel{ID: orderID}, Status: model.OrderStatusCancelled}, nil
}

func (s *stubOrders) UpdateOrderStatus(_ context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &model.Order{BaseModel: model.BaseModel{ID: orderID}, Status: status}, nil
}

func (s *stubOrders) GetOrder(_ context.Context, id string) (*model.Order, error) {
	return nil, order.ErrOrderNotFound
}

func (s *stubOrders) ListOrdersByUser(_ context.Context, _ string) ([]model.Order, error) {
	return nil, nil
}
func (s *stubOrders) ListOrdersByStatus(_ context.Context, _ model.OrderStatus) ([]model.Order, error) {
	return nil, nil
}
func (s *stubOrders) ListActiveOrders(_ context.Context) ([]model.Order, error) { return nil, nil }
func (s *stubOrders) UpdateOrderAddresses(_ context.Context, _ *dto.UpdateAddressInput) (*model.Order, error) {
	return nil, nil
}

func newTestServer(orders order.UseCase) *Server {
	return NewServer(orders, nil, nil, nil, nil, nil, 5*time.Second, logger.NewNop())
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPlaceOrder_Success(t *testing.T) {
	stub := &stubOrders{}
	h := newTestServer(stub).Routes()

	rec := doRequest(t, h, http.MethodPost, "/api/orders",
		`{"request_id":"r1","lines":[{"product_id":"p1","quantity":2}]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stub.placed)
	// identity falls back to the authenticated header
	assert.Equal(t, "u1", stub.placed.UserID)
	assert.Equal(t, "r1", stub.placed.RequestID)
	require.Len(t, stub.placed.Lines, 1)
	assert.Equal(t, 2, stub.placed.Lines[0].Quantity)
}

func TestPlaceOrder_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{order.ErrEmptyOrder, http.StatusBadRequest},
		{inventory.ErrProductNotFound, http.StatusNotFound},
		{&order.LineRejectedError{ProductID: "p1", Reason: inventory.ErrInsufficientStock}, http.StatusConflict},
		{order.ErrDuplicateRequest, http.StatusConflict},
		{fmt.Errorf("persist: %w", order.ErrGatewayTimeout), http.StatusGatewayTimeout},
	}

	for _, tc := range cases {
		h := newTestServer(&stubOrders{placeErr: tc.err}).Routes()
		rec := doRequest(t, h, http.MethodPost, "/api/orders",
			`{"lines":[{"product_id":"p1","quantity":1}]}`)
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}
}

func TestUpdateOrderStatus_Illegal(t *testing.T) {
	h := newTestServer(&stubOrders{statusErr: order.ErrIllegalTransition}).Routes()

	rec := doRequest(t, h, http.MethodPatch, "/api/orders/o1/status", `{"status":"delivered"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	h := newTestServer(&stubOrders{}).Routes()

	rec := doRequest(t, h, http.MethodGet, "/api/orders/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newTestServer(&stubOrders{}).Routes()

	rec := doRequest(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
