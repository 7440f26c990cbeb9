package sse

import (
	"context"
	"sync"

	"ms-coupons/internal/models"
)

// Notifier manages SSE connections and fans notifications out to two
// audiences: the admin cohort and individual guests. It is the publisher
// capability the order and guest workflows depend on, so they never own
// the transport.
type Notifier struct {
	adminClients     []chan models.Notification
	adminClientMutex sync.RWMutex

	// Guest channel clients map - key: guestID, value: slice of client channels
	guestClients     map[string][]chan models.Notification
	guestClientMutex sync.RWMutex
}

// NewNotifier creates a new SSE notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		guestClients: make(map[string][]chan models.Notification),
	}
}

// SubscribeAdmins adds a client to the admin cohort stream.
func (n *Notifier) SubscribeAdmins(ctx context.Context) chan models.Notification {
	clientChan := make(chan models.Notification, 10)

	n.adminClientMutex.Lock()
	n.adminClients = append(n.adminClients, clientChan)
	n.adminClientMutex.Unlock()

	// Remove client when context is done
	go func() {
		<-ctx.Done()
		n.removeAdminClient(clientChan)
	}()

	return clientChan
}

// SubscribeGuest adds a client to a single guest's stream.
func (n *Notifier) SubscribeGuest(ctx context.Context, guestID string) chan models.Notification {
	clientChan := make(chan models.Notification, 10)

	n.guestClientMutex.Lock()
	if n.guestClients[guestID] == nil {
		n.guestClients[guestID] = []chan models.Notification{}
	}
	n.guestClients[guestID] = append(n.guestClients[guestID], clientChan)
	n.guestClientMutex.Unlock()

	// Remove client when context is done
	go func() {
		<-ctx.Done()
		n.removeGuestClient(guestID, clientChan)
	}()

	return clientChan
}

// NotifyAdmins broadcasts a notification to every admin client. Sends stay
// under the read lock: removal closes channels under the write lock, so a
// channel can never be closed mid-send.
func (n *Notifier) NotifyAdmins(notification models.Notification) {
	n.adminClientMutex.RLock()
	defer n.adminClientMutex.RUnlock()

	for _, clientChan := range n.adminClients {
		// Non-blocking send to avoid slowing down the caller if a client is slow
		select {
		case clientChan <- notification:
		default:
			// Channel buffer full, skip this client for now
		}
	}
}

// NotifyGuest pushes a notification to every connection of one guest.
func (n *Notifier) NotifyGuest(guestID string, notification models.Notification) {
	n.guestClientMutex.RLock()
	defer n.guestClientMutex.RUnlock()

	for _, clientChan := range n.guestClients[guestID] {
		select {
		case clientChan <- notification:
		default:
			// Channel buffer full, skip this client for now
		}
	}
}

// Helper methods to remove clients when they disconnect
func (n *Notifier) removeAdminClient(clientChan chan models.Notification) {
	n.adminClientMutex.Lock()
	defer n.adminClientMutex.Unlock()

	for i, ch := range n.adminClients {
		if ch == clientChan {
			n.adminClients = append(n.adminClients[:i], n.adminClients[i+1:]...)
			close(clientChan)
			break
		}
	}
}

func (n *Notifier) removeGuestClient(guestID string, clientChan chan models.Notification) {
	n.guestClientMutex.Lock()
	defer n.guestClientMutex.Unlock()

	clients := n.guestClients[guestID]
	for i, ch := range clients {
		if ch == clientChan {
			n.guestClients[guestID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}

	// Clean up map entry if no more clients
	if len(n.guestClients[guestID]) == 0 {
		delete(n.guestClients, guestID)
	}
}

// AdminClientCount returns the number of connected admin clients.
func (n *Notifier) AdminClientCount() int {
	n.adminClientMutex.RLock()
	defer n.adminClientMutex.RUnlock()
	return len(n.adminClients)
}

// GuestClientCount returns the number of connections for one guest.
func (n *Notifier) GuestClientCount(guestID string) int {
	n.guestClientMutex.RLock()
	defer n.guestClientMutex.RUnlock()
	return len(n.guestClients[guestID])
}
