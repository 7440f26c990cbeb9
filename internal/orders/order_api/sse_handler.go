package order_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-coupons/internal/logger"
	"ms-coupons/internal/models"
	"ms-coupons/internal/sse"
)

// SSEHandler manages the Server-Sent Events endpoints for order and coupon
// notifications.
type SSEHandler struct {
	Logger   *logger.Logger
	Notifier *sse.Notifier
}

// NewSSEHandler creates an SSE handler over a shared notifier.
func NewSSEHandler(logger *logger.Logger, notifier *sse.Notifier) *SSEHandler {
	return &SSEHandler{
		Logger:   logger,
		Notifier: notifier,
	}
}

// HandleAdminNotifications streams order and coupon events to the admin
// cohort (bartender dashboards).
func (h *SSEHandler) HandleAdminNotifications(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	h.setupSSEHeaders(w)

	// Context cancels when the client disconnects
	ctx := r.Context()
	eventChan := h.Notifier.SubscribeAdmins(ctx)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"audience\":\"admin\"}\n\n")
	flusher.Flush()

	h.Logger.Info("SSE", "Admin client connected to notification stream")

	h.stream(w, flusher, ctx.Done(), eventChan, "admin")
}

// HandleGuestNotifications streams a single guest's coupon and order
// events.
func (h *SSEHandler) HandleGuestNotifications(w http.ResponseWriter, r *http.Request) {
	guestID := chi.URLParam(r, "guestId")
	if guestID == "" {
		http.Error(w, "Guest ID is required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	h.setupSSEHeaders(w)

	ctx := r.Context()
	eventChan := h.Notifier.SubscribeGuest(ctx, guestID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"guestID\":%q}\n\n", guestID)
	flusher.Flush()

	h.Logger.Info("SSE", fmt.Sprintf("Guest %s connected to notification stream", guestID))

	h.stream(w, flusher, ctx.Done(), eventChan, guestID)
}

func (h *SSEHandler) stream(w http.ResponseWriter, flusher http.Flusher, done <-chan struct{}, eventChan chan models.Notification, who string) {
	for {
		select {
		case notification, ok := <-eventChan:
			if !ok {
				h.Logger.Debug("SSE", fmt.Sprintf("Channel closed for %s", who))
				return
			}

			jsonData, err := json.Marshal(notification.Payload)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize notification: %v", err))
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", notification.Type, jsonData)
			flusher.Flush()

		case <-done:
			h.Logger.Info("SSE", fmt.Sprintf("Client disconnected: %s", who))
			return
		}
	}
}

func (h *SSEHandler) setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// The server's write timeout applies per request; streams stay open
	// for the whole session, so clear the deadline for this response.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.Logger.Warn("SSE", fmt.Sprintf("Failed to clear write deadline: %v", err))
	}
}
