package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/omniorder/order-service/internal/auth"
	"github.com/omniorder/order-service/internal/category"
	categorydto "github.com/omniorder/order-service/internal/category/dto"
	"github.com/omniorder/order-service/internal/inventory"
	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/internal/notification"
	"github.com/omniorder/order-service/internal/order"
	orderdto "github.com/omniorder/order-service/internal/order/dto"
	"github.com/omniorder/order-service/internal/payment"
	paymentdto "github.com/omniorder/order-service/internal/payment/dto"
	"github.com/omniorder/order-service/internal/product"
	productdto "github.com/omniorder/order-service/internal/product/dto"
	"github.com/omniorder/order-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Server struct {
	orders         order.UseCase
	products       product.UseCase
	categories     category.UseCase
	payments       payment.UseCase
	ledger         inventory.UseCase
	notifications  notification.Repository
	gatewayTimeout time.Duration
	logger         logger.ZapLogger
}

func NewServer(
	orders order.UseCase,
	products product.UseCase,
	categories category.UseCase,
	payments payment.UseCase,
	ledger inventory.UseCase,
	notifications notification.Repository,
	gatewayTimeout time.Duration,
	log logger.ZapLogger,
) *Server {
	return &Server{
		orders:         orders,
		products:       products,
		categories:     categories,
		payments:       payments,
		ledger:         ledger,
		notifications:  notifications,
		gatewayTimeout: gatewayTimeout,
		logger:         log,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthCheck)

	mux.HandleFunc("POST /api/orders", s.placeOrder)
	mux.HandleFunc("GET /api/orders", s.listOrders)
	mux.HandleFunc("GET /api/orders/{id}", s.getOrder)
	mux.HandleFunc("POST /api/orders/{id}/cancel", s.cancelOrder)
	mux.HandleFunc("PATCH /api/orders/{id}/status", s.updateOrderStatus)
	mux.HandleFunc("PATCH /api/orders/{id}/addresses", s.updateOrderAddresses)
	mux.HandleFunc("GET /api/orders/{id}/payment", s.getOrderPayment)

	mux.HandleFunc("POST /api/inventory/{productID}/restock", s.restock)

	mux.HandleFunc("POST /api/products", s.createProduct)
	mux.HandleFunc("GET /api/products", s.listProducts)
	mux.HandleFunc("GET /api/products/{id}", s.getProduct)
	mux.HandleFunc("PATCH /api/products/{id}", s.updateProduct)
	mux.HandleFunc("POST /api/products/{id}/toggle-availability", s.toggleAvailability)

	mux.HandleFunc("POST /api/categories", s.createCategory)
	mux.HandleFunc("GET /api/categories", s.listCategories)
	mux.HandleFunc("GET /api/categories/{id}", s.getCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.updateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.deleteCategory)

	mux.HandleFunc("POST /api/payments", s.createPayment)
	mux.HandleFunc("GET /api/payments/{id}", s.getPayment)
	mux.HandleFunc("POST /api/payments/{id}/process", s.processPayment)
	mux.HandleFunc("POST /api/payments/{id}/refund", s.refundPayment)

	mux.HandleFunc("GET /api/notifications", s.listNotifications)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.markNotificationRead)

	return auth.Middleware(mux)
}

func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- orders ---

type placeOrderRequest struct {
	RequestID       string  `json:"request_id"`
	UserID          string  `json:"user_id"`
	ShippingAddress *string `json:"shipping_address"`
	BillingAddress  *string `json:"billing_address"`
	Lines           []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"lines"`
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = auth.GetUserID(r.Context())
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	input := &orderdto.PlaceOrderInput{
		UserID:          userID,
		RequestID:       req.RequestID,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	}
	for _, l := range req.Lines {
		input.Lines = append(input.Lines, orderdto.OrderLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.gatewayTimeout)
	defer cancel()

	o, err := s.orders.PlaceOrder(ctx, input)
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		orders []model.Order
		err    error
	)
	switch {
	case q.Get("user_id") != "":
		orders, err = s.orders.ListOrdersByUser(r.Context(), q.Get("user_id"))
	case q.Get("status") != "":
		orders, err = s.orders.ListOrdersByStatus(r.Context(), model.OrderStatus(q.Get("status")))
	case q.Get("active") == "true":
		orders, err = s.orders.ListActiveOrders(r.Context())
	default:
		orders, err = s.orders.ListOrdersByUser(r.Context(), auth.GetUserID(r.Context()))
	}
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.CancelOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	o, err := s.orders.UpdateOrderStatus(r.Context(), r.PathValue("id"), model.OrderStatus(req.Status))
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) updateOrderAddresses(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShippingAddress *string `json:"shipping_address"`
		BillingAddress  *string `json:"billing_address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := s.orders.UpdateOrderAddresses(r.Context(), &orderdto.UpdateAddressInput{
		OrderID:         r.PathValue("id"),
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	})
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyOrder), errors.Is(err, inventory.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, inventory.ErrProductNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrDuplicateRequest),
		errors.Is(err, order.ErrConflict),
		errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrProductUnavailable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrIllegalTransition):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, order.ErrGatewayTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// --- inventory ---

func (s *Server) restock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.ledger.Restock(r.Context(), r.PathValue("productID"), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, inventory.ErrProductNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, inventory.ErrExceedsMaxStock):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Error("restock failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restocked"})
}

// --- products ---

type createProductRequest struct {
	CategoryID    string `json:"category_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	ImageURL      string `json:"image_url"`
	MinStockLevel int    `json:"min_stock_level"`
	MaxStockLevel *int   `json:"max_stock_level"`
	InitialStock  int    `json:"initial_stock"`
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price")
		return
	}

	p, err := s.products.CreateProduct(r.Context(), &productdto.CreateProductInput{
		CreatedBy:     auth.GetUserID(r.Context()),
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         price,
		ImageURL:      req.ImageURL,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
		InitialStock:  req.InitialStock,
	})
	if err != nil {
		s.writeProductError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.products.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := pagination(r)

	if search := q.Get("q"); search != "" {
		products, count, err := s.products.SearchProducts(r.Context(), search, page, pageSize)
		if err != nil {
			s.writeProductError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"products": products, "total": count})
		return
	}

	filters := &productdto.ProductFilters{
		CategoryID:    q.Get("category_id"),
		AvailableOnly: q.Get("available") == "true",
		Page:          page,
		PageSize:      pageSize,
	}
	products, count, err := s.products.ListProducts(r.Context(), filters)
	if err != nil {
		s.writeProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products, "total": count})
}

type updateProductRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *string `json:"price"`
	ImageURL      *string `json:"image_url"`
	CategoryID    *string `json:"category_id"`
	IsAvailable   *bool   `json:"is_available"`
	MinStockLevel *int    `json:"min_stock_level"`
	MaxStockLevel *int    `json:"max_stock_level"`
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := &productdto.ProductPatch{
		Name:          req.Name,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		CategoryID:    req.CategoryID,
		IsAvailable:   req.IsAvailable,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid price")
			return
		}
		patch.Price = &price
	}

	p, err := s.products.UpdateProduct(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.writeProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) toggleAvailability(w http.ResponseWriter, r *http.Request) {
	p, err := s.products.ToggleAvailability(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) writeProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, product.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, product.ErrCategoryNotFound),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStockLevel):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// --- categories ---

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	c, err := s.categories.CreateCategory(r.Context(), &categorydto.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.ListCategories(r.Context())
	if err != nil {
		s.writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.categories.GetCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.categories.UpdateCategory(r.Context(), &categorydto.UpdateCategoryInput{
		ID:          r.PathValue("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categories.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		s.writeCategoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, category.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, category.ErrHasProducts):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// --- payments ---

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"order_id"`
		Method  string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	p, err := s.payments.CreatePayment(r.Context(), &paymentdto.CreatePaymentInput{
		OrderID: req.OrderID,
		UserID:  auth.GetUserID(r.Context()),
		Method:  req.Method,
	})
	if err != nil {
		s.writePaymentError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getPayment(w http.ResponseWriter, r *http.Request) {
	p, err := s.payments.GetPayment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writePaymentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) getOrderPayment(w http.ResponseWriter, r *http.Request) {
	p, err := s.payments.GetPaymentByOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writePaymentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) processPayment(w http.ResponseWriter, r *http.Request) {
	p, err := s.payments.ProcessPayment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writePaymentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) refundPayment(w http.ResponseWriter, r *http.Request) {
	p, err := s.payments.RefundPayment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writePaymentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) writePaymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payment.ErrNotFound), errors.Is(err, payment.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, payment.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, payment.ErrInvalidState), errors.Is(err, payment.ErrOrderNotReturnable):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// --- notifications ---

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = auth.GetUserID(r.Context())
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := s.notifications.FindByUser(r.Context(), userID, unreadOnly)
	if err != nil {
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.notifications.MarkRead(r.Context(), r.PathValue("id")); err != nil {
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// --- helpers ---

func pagination(r *http.Request) (page, pageSize int) {
	page, pageSize = 1, 20
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := parsePositive(v); err == nil {
			page = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := parsePositive(v); err == nil {
			pageSize = n
		}
	}
	return page, pageSize
}

func parsePositive(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("not positive")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
