package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ordersvc/internal/apperr"
	"ordersvc/internal/logger"
	"ordersvc/internal/order"
	"ordersvc/internal/payment"
	"ordersvc/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type OrderRequest struct {
	OrderItems []OrderItemRequest `json:"orderItems"`
}

type PaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	PaymentMethod string           `json:"paymentMethod"`
}

// ErrorResponse is the JSON error body. Only the kind and message surface;
// internal causes stay in the logs.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

type OrdersHandler struct {
	svc order.Service
}

func NewOrdersHandler(svc order.Service) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/", h.getAllOrders)
		r.Get("/user", h.getUserOrders)
		r.Get("/status/{status}", h.getOrdersByStatus)
		r.Get("/{orderID}", h.getOrder)
		r.Put("/{orderID}/status", h.updateOrderStatus)
		r.Delete("/{orderID}", h.cancelOrder)
		r.Post("/{orderID}/payment", h.processPayment)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error kinds onto transport status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var label string
	message := ""

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status, label = http.StatusNotFound, "Not Found"
	case apperr.KindInvalidOrder:
		status, label = http.StatusBadRequest, "Bad Request"
	case apperr.KindInsufficientStock:
		status, label = http.StatusConflict, "Insufficient Stock"
	case apperr.KindPaymentFailed:
		status, label = http.StatusPaymentRequired, "Payment Failed"
	case apperr.KindUnavailable:
		status, label = http.StatusBadGateway, "Service Communication Error"
	default:
		status, label = http.StatusInternalServerError, "Internal Server Error"
		message = "An unexpected error occurred. Please try again later."
		logger.FromCtx(r.Context()).Error("unexpected error", zap.Error(err))
	}

	if message == "" {
		var e *apperr.Error
		if errors.As(err, &e) {
			message = e.Message
		} else {
			message = err.Error()
		}
	}

	writeJSON(w, status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     label,
		Message:   message,
		Path:      r.URL.Path,
	})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    http.StatusBadRequest,
		Error:     "Bad Request",
		Message:   message,
		Path:      r.URL.Path,
	})
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    http.StatusUnauthorized,
		Error:     "Unauthorized",
		Message:   "missing or invalid caller identity",
		Path:      r.URL.Path,
	})
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid json")
		return
	}
	if len(req.OrderItems) == 0 {
		writeBadRequest(w, r, "order must contain at least one item")
		return
	}

	items := make([]order.CreateItemInput, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		items = append(items, order.CreateItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	o, err := h.svc.CreateOrder(r.Context(), userID, items)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, order.ToResponse(o))
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}

	orderID, err := parseID(chi.URLParam(r, "orderID"))
	if err != nil {
		writeBadRequest(w, r, "invalid order id")
		return
	}

	o, err := h.svc.GetOrderByID(r.Context(), orderID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order.ToResponse(o))
}

func (h *OrdersHandler) getUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}

	orders, err := h.svc.GetUserOrders(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order.ToResponses(orders))
}

// getAllOrders is admin by convention; the gateway is expected to gate the
// route, the service does not re-check.
func (h *OrdersHandler) getAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.GetAllOrders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order.ToResponses(orders))
}

func (h *OrdersHandler) getOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := order.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	orders, err := h.svc.GetOrdersByStatus(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order.ToResponses(orders))
}

func (h *OrdersHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(chi.URLParam(r, "orderID"))
	if err != nil {
		writeBadRequest(w, r, "invalid order id")
		return
	}

	status, err := order.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.svc.UpdateOrderStatus(r.Context(), orderID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order.ToResponse(o))
}

func (h *OrdersHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}

	orderID, err := parseID(chi.URLParam(r, "orderID"))
	if err != nil {
		writeBadRequest(w, r, "invalid order id")
		return
	}

	o, err := h.svc.CancelOrder(r.Context(), orderID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order.ToResponse(o))
}

func (h *OrdersHandler) processPayment(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(chi.URLParam(r, "orderID"))
	if err != nil {
		writeBadRequest(w, r, "invalid order id")
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid json")
		return
	}
	if req.Amount == nil {
		writeBadRequest(w, r, "payment amount is required")
		return
	}

	o, err := h.svc.ProcessPayment(r.Context(), orderID, payment.Request{
		Amount:        *req.Amount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order.ToResponse(o))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidOrder("invalid id: %s", raw)
	}
	return id, nil
}
