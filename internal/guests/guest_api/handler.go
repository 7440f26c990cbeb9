package guest_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-coupons/internal/guests"
	"ms-coupons/internal/logger"
	"ms-coupons/internal/models"
	"ms-coupons/internal/utils"
	"ms-coupons/internal/validate"
)

type Handler struct {
	GuestService *guests.GuestService
	Logger       *logger.Logger
}

func NewHandler(guestService *guests.GuestService, logger *logger.Logger) *Handler {
	return &Handler{
		GuestService: guestService,
		Logger:       logger,
	}
}

// RegisterGuest handles the claim flow behind the QR link.
func (h *Handler) RegisterGuest(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "RegisterGuest: received request")

	var req models.RegisterGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("RegisterGuest: failed to decode request body: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("RegisterGuest: validation failed: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	guest, created, err := h.GuestService.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, "RegisterGuest", err)
		return
	}

	status := http.StatusOK
	message := "Coupons claimed successfully!"
	if created {
		status = http.StatusCreated
		message = "Registered and claimed coupons successfully!"
	}
	h.Logger.Info("API", fmt.Sprintf("RegisterGuest: guest %s claimed %d coupons", guest.ID, guest.Coupons))
	utils.JSON(w, status, utils.SuccessResponse(message, guest))
}

// LoginGuest authenticates a guest against the per-event credential store.
func (h *Handler) LoginGuest(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "LoginGuest: received request")

	var req models.GuestLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("LoginGuest: failed to decode request body: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("LoginGuest: validation failed: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	guest, token, err := h.GuestService.Login(r.Context(), req.Email, req.EventID, req.Password)
	if err != nil {
		h.writeError(w, "LoginGuest", err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("LoginGuest: guest %s logged in", guest.ID))
	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Login successful", map[string]interface{}{
		"token": token,
		"guest": guest,
	}))
}

// GetCoupons returns the current coupon balance.
func (h *Handler) GetCoupons(w http.ResponseWriter, r *http.Request) {
	guestID := chi.URLParam(r, "guestId")
	h.Logger.Info("API", fmt.Sprintf("GetCoupons: guestId=%s", guestID))

	coupons, err := h.GuestService.Coupons(r.Context(), guestID)
	if err != nil {
		h.writeError(w, "GetCoupons", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Coupons fetched", map[string]int{"coupons": coupons}))
}

// GetDashboard returns guest profile, event, and order history.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	guestID := chi.URLParam(r, "guestId")
	h.Logger.Info("API", fmt.Sprintf("GetDashboard: guestId=%s", guestID))

	dashboard, err := h.GuestService.GetDashboard(r.Context(), guestID)
	if err != nil {
		h.writeError(w, "GetDashboard", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Dashboard fetched", dashboard))
}

// ToggleClaimed flips the claimed flag (admin only).
func (h *Handler) ToggleClaimed(w http.ResponseWriter, r *http.Request) {
	guestID := chi.URLParam(r, "guestId")
	h.Logger.Info("API", fmt.Sprintf("ToggleClaimed: guestId=%s", guestID))

	guest, err := h.GuestService.ToggleClaimed(r.Context(), guestID)
	if err != nil {
		h.writeError(w, "ToggleClaimed", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Guest claimed status toggled successfully", guest))
}

// ClaimCocktail marks a cocktail claimed for a guest (admin walk-up path).
func (h *Handler) ClaimCocktail(w http.ResponseWriter, r *http.Request) {
	guestID := chi.URLParam(r, "guestId")
	h.Logger.Info("API", fmt.Sprintf("ClaimCocktail: guestId=%s", guestID))

	var req models.ClaimCocktailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ClaimCocktail: failed to decode request body: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ClaimCocktail: validation failed: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	guest, err := h.GuestService.ClaimCocktail(r.Context(), guestID, req.CocktailName)
	if err != nil {
		h.writeError(w, "ClaimCocktail", err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("ClaimCocktail: %s claimed for guest %s, %d coupons left", req.CocktailName, guestID, guest.Coupons))
	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Cocktail claimed successfully", guest))
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))

	switch {
	case errors.Is(err, guests.ErrEventNotFound):
		utils.JSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", "NOT_FOUND"))
	case errors.Is(err, guests.ErrGuestNotFound):
		utils.JSON(w, http.StatusNotFound, utils.ErrorResponse("Guest not found", "NOT_FOUND"))
	case errors.Is(err, guests.ErrNotOnGuestList):
		utils.JSON(w, http.StatusForbidden, utils.ErrorResponse("Your email is not on the guest list for this event.", "FORBIDDEN"))
	case errors.Is(err, guests.ErrRequiresLogin):
		// Distinct code so the client can branch to the login page.
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("You have already claimed coupons for this event.", "REQUIRES_LOGIN"))
	case errors.Is(err, guests.ErrInvalidCredentials):
		utils.JSON(w, http.StatusUnauthorized, utils.ErrorResponse("Invalid credentials", "UNAUTHENTICATED"))
	case errors.Is(err, guests.ErrAlreadyClaimed):
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Cocktail already claimed", "REJECTED"))
	case errors.Is(err, guests.ErrNoCoupons):
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("No coupons remaining.", "REJECTED"))
	case errors.Is(err, guests.ErrGuestLocked):
		utils.JSON(w, http.StatusConflict, utils.ErrorResponse("Guest record is busy, try again", "REJECTED"))
	default:
		utils.JSON(w, http.StatusInternalServerError, utils.ErrorResponse("Internal error", "INTERNAL"))
	}
}
