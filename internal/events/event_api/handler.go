package event_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-coupons/internal/events"
	"ms-coupons/internal/logger"
	"ms-coupons/internal/models"
	"ms-coupons/internal/utils"
	"ms-coupons/internal/validate"
)

type Handler struct {
	EventService *events.EventService
	Logger       *logger.Logger
}

func NewHandler(eventService *events.EventService, logger *logger.Logger) *Handler {
	return &Handler{
		EventService: eventService,
		Logger:       logger,
	}
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "CreateEvent: received request")

	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: failed to decode request body: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: validation failed: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	event, err := h.EventService.CreateEvent(r.Context(), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: failed to create event: %v", err))
		utils.JSON(w, http.StatusInternalServerError, utils.ErrorResponse("Error creating event", "INTERNAL"))
		return
	}

	h.Logger.Info("API", fmt.Sprintf("CreateEvent: event %s created", event.ID))
	utils.JSON(w, http.StatusCreated, utils.SuccessResponse("Event created successfully", event))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	h.Logger.Info("API", fmt.Sprintf("GetEvent: id=%s", eventID))

	event, err := h.EventService.GetEvent(r.Context(), eventID)
	if err != nil {
		h.writeError(w, "GetEvent", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Event fetched", event))
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "ListEvents: received request")

	eventList, err := h.EventService.ListEvents(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: failed to list events: %v", err))
		utils.JSON(w, http.StatusInternalServerError, utils.ErrorResponse("Error fetching events", "INTERNAL"))
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Events fetched", eventList))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	h.Logger.Info("API", fmt.Sprintf("DeleteEvent: id=%s", eventID))

	if err := h.EventService.DeleteEvent(r.Context(), eventID); err != nil {
		h.writeError(w, "DeleteEvent", err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("DeleteEvent: event %s deleted with guest cascade", eventID))
	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Event deleted successfully", nil))
}

func (h *Handler) AddGuest(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("AddGuest: eventId=%s", eventID))

	req, ok := h.decodeGuestListRequest(w, r, "AddGuest")
	if !ok {
		return
	}

	event, err := h.EventService.AddGuest(r.Context(), eventID, req.Email)
	if err != nil {
		h.writeError(w, "AddGuest", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Guest added to event successfully", event))
}

func (h *Handler) RemoveGuest(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("RemoveGuest: eventId=%s", eventID))

	req, ok := h.decodeGuestListRequest(w, r, "RemoveGuest")
	if !ok {
		return
	}

	event, err := h.EventService.RemoveGuest(r.Context(), eventID, req.Email)
	if err != nil {
		h.writeError(w, "RemoveGuest", err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Guest removed from event successfully", event))
}

func (h *Handler) decodeGuestListRequest(w http.ResponseWriter, r *http.Request, op string) (models.GuestListRequest, bool) {
	var req models.GuestListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("%s: failed to decode request body: %v", op, err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("%s: validation failed: %v", op, err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return req, false
	}
	return req, true
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))

	switch {
	case errors.Is(err, events.ErrNotFound):
		utils.JSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", "NOT_FOUND"))
	case errors.Is(err, events.ErrGuestNotOnList):
		utils.JSON(w, http.StatusNotFound, utils.ErrorResponse("Guest not found in event", "NOT_FOUND"))
	case errors.Is(err, events.ErrDuplicateGuest):
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Guest already exists in this event", "REJECTED"))
	default:
		utils.JSON(w, http.StatusInternalServerError, utils.ErrorResponse("Internal error", "INTERNAL"))
	}
}
