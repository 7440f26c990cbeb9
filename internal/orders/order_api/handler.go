package order_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-coupons/internal/logger"
	"ms-coupons/internal/models"
	"ms-coupons/internal/orders"
	"ms-coupons/internal/utils"
	"ms-coupons/internal/validate"
)

type Handler struct {
	OrderService *orders.OrderService
	Logger       *logger.Logger
}

func NewHandler(orderService *orders.OrderService, logger *logger.Logger) *Handler {
	return &Handler{
		OrderService: orderService,
		Logger:       logger,
	}
}

// PlaceOrder redeems one coupon for one cocktail.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "PlaceOrder: received request")

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("PlaceOrder: failed to decode request body: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("PlaceOrder: validation failed: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	order, err := h.OrderService.PlaceOrder(r.Context(), req.GuestID, req.Cocktail)
	if err != nil {
		h.writeError(w, "PlaceOrder", err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("PlaceOrder: order %s created", order.ID))
	utils.JSON(w, http.StatusCreated, utils.SuccessResponse("Order placed successfully!", order))
}

// CompleteOrder marks a pending order fulfilled (admin only).
func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	h.Logger.Info("API", fmt.Sprintf("CompleteOrder: orderId=%s", orderID))

	order, err := h.OrderService.CompleteOrder(r.Context(), orderID)
	if err != nil {
		h.writeError(w, "CompleteOrder", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Order completed successfully!", order))
}

// GetPendingOrders feeds the bartender queue (admin only).
func (h *Handler) GetPendingOrders(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "GetPendingOrders: received request")

	pending, err := h.OrderService.PendingOrders(r.Context())
	if err != nil {
		h.writeError(w, "GetPendingOrders", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Pending orders fetched", pending))
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))

	switch {
	case errors.Is(err, orders.ErrGuestNotFound):
		utils.JSON(w, http.StatusNotFound, utils.ErrorResponse("Guest not found", "NOT_FOUND"))
	case errors.Is(err, orders.ErrOrderNotFound):
		utils.JSON(w, http.StatusNotFound, utils.ErrorResponse("Order not found", "NOT_FOUND"))
	case errors.Is(err, orders.ErrNoCoupons):
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("No coupons remaining.", "REJECTED"))
	case errors.Is(err, orders.ErrAlreadyCompleted):
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Order already completed.", "REJECTED"))
	case errors.Is(err, orders.ErrDuplicateOrder):
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Cocktail already ordered by this guest", "REJECTED"))
	default:
		utils.JSON(w, http.StatusInternalServerError, utils.ErrorResponse("Internal error", "INTERNAL"))
	}
}
