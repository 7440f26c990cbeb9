package admin_api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-coupons/internal/admin"
	"ms-coupons/internal/logger"
	"ms-coupons/internal/utils"
)

// Handler handles the admin HTTP endpoints
type Handler struct {
	Service *admin.Service
	Logger  *logger.Logger
}

// NewHandler creates a new admin handler
func NewHandler(service *admin.Service, logger *logger.Logger) *Handler {
	return &Handler{
		Service: service,
		Logger:  logger,
	}
}

// RegisterRoutes registers the admin routes on a chi router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/overview", h.GetOverview)
		r.Get("/event/{eventId}/guests", h.GetGuestsForEvent)
		r.Get("/event/{eventId}/orders", h.GetOrdersForEvent)
		r.Put("/guest/{guestId}/revoke-coupons", h.RevokeCoupons)
		r.Put("/guest/{guestId}/disable-account", h.DisableAccount)
	})
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "GetOverview: received request")

	overview, err := h.Service.GetOverview(r.Context())
	if err != nil {
		h.writeError(w, "GetOverview", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Overview fetched", overview))
}

func (h *Handler) GetGuestsForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("GetGuestsForEvent: eventId=%s", eventID))

	guestList, err := h.Service.GuestsForEvent(r.Context(), eventID)
	if err != nil {
		h.writeError(w, "GetGuestsForEvent", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Guests fetched", guestList))
}

func (h *Handler) GetOrdersForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("GetOrdersForEvent: eventId=%s", eventID))

	orderList, err := h.Service.OrdersForEvent(r.Context(), eventID)
	if err != nil {
		h.writeError(w, "GetOrdersForEvent", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Orders fetched", orderList))
}

func (h *Handler) RevokeCoupons(w http.ResponseWriter, r *http.Request) {
	guestID := chi.URLParam(r, "guestId")
	h.Logger.Info("API", fmt.Sprintf("RevokeCoupons: guestId=%s", guestID))

	guest, err := h.Service.RevokeCoupons(r.Context(), guestID)
	if err != nil {
		h.writeError(w, "RevokeCoupons", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Guest coupons revoked", guest))
}

func (h *Handler) DisableAccount(w http.ResponseWriter, r *http.Request) {
	guestID := chi.URLParam(r, "guestId")
	h.Logger.Info("API", fmt.Sprintf("DisableAccount: guestId=%s", guestID))

	guest, err := h.Service.DisableAccount(r.Context(), guestID)
	if err != nil {
		h.writeError(w, "DisableAccount", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Guest account disabled", guest))
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))

	if errors.Is(err, admin.ErrGuestNotFound) {
		utils.JSON(w, http.StatusNotFound, utils.ErrorResponse("Guest not found", "NOT_FOUND"))
		return
	}
	utils.JSON(w, http.StatusInternalServerError, utils.ErrorResponse("Internal error", "INTERNAL"))
}
