package sse_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-coupons/internal/models"
	"ms-coupons/internal/sse"
)

func TestNotifyAdminsBroadcasts(t *testing.T) {
	notifier := sse.NewNotifier()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch1 := notifier.SubscribeAdmins(ctx)
	ch2 := notifier.SubscribeAdmins(ctx)
	assert.Equal(t, 2, notifier.AdminClientCount())

	notification := models.Notification{
		Type:    models.NotificationNewOrder,
		Payload: "order-1",
	}
	notifier.NotifyAdmins(notification)

	for _, ch := range []chan models.Notification{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, models.NotificationNewOrder, got.Type)
		case <-time.After(time.Second):
			t.Fatal("Admin client did not receive the notification")
		}
	}
}

func TestNotifyGuestTargetsOneGuest(t *testing.T) {
	notifier := sse.NewNotifier()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	aliceChan := notifier.SubscribeGuest(ctx, "alice")
	bobChan := notifier.SubscribeGuest(ctx, "bob")

	notifier.NotifyGuest("alice", models.Notification{
		Type:    models.NotificationCouponUpdate,
		Payload: models.CouponUpdate{GuestID: "alice", Coupons: 4},
	})

	select {
	case got := <-aliceChan:
		assert.Equal(t, models.NotificationCouponUpdate, got.Type)
		update := got.Payload.(models.CouponUpdate)
		assert.Equal(t, 4, update.Coupons)
	case <-time.After(time.Second):
		t.Fatal("Guest client did not receive the notification")
	}

	select {
	case got := <-bobChan:
		t.Fatalf("Bob should not receive Alice's notification, got %v", got)
	default:
	}
}

func TestNotifyGuestWithoutSubscribersIsNoop(t *testing.T) {
	notifier := sse.NewNotifier()

	// Must not panic or block
	notifier.NotifyGuest("nobody", models.Notification{Type: models.NotificationCouponUpdate})
	notifier.NotifyAdmins(models.Notification{Type: models.NotificationNewOrder})
}

func TestSubscriberRemovedOnContextCancel(t *testing.T) {
	notifier := sse.NewNotifier()

	ctx, cancel := context.WithCancel(context.Background())
	notifier.SubscribeAdmins(ctx)
	notifier.SubscribeGuest(ctx, "alice")

	require.Equal(t, 1, notifier.AdminClientCount())
	require.Equal(t, 1, notifier.GuestClientCount("alice"))

	cancel()

	// Removal happens on a goroutine watching ctx.Done
	assert.Eventually(t, func() bool {
		return notifier.AdminClientCount() == 0 && notifier.GuestClientCount("alice") == 0
	}, time.Second, 10*time.Millisecond, "Clients should be removed after context cancellation")
}

func TestNotifyDuringConcurrentDisconnects(t *testing.T) {
	notifier := sse.NewNotifier()

	// Clients connect and drop while orders keep flowing; publishing must
	// never hit a closed channel
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				notifier.NotifyGuest("alice", models.Notification{
					Type:    models.NotificationCouponUpdate,
					Payload: models.CouponUpdate{GuestID: "alice", Coupons: 4},
				})
				notifier.NotifyAdmins(models.Notification{Type: models.NotificationNewOrder})
			}
		}
	}()

	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		guestChan := notifier.SubscribeGuest(ctx, "alice")
		adminChan := notifier.SubscribeAdmins(ctx)

		// Drain a little so the buffers churn
		select {
		case <-guestChan:
		default:
		}
		select {
		case <-adminChan:
		default:
		}

		cancel()
	}

	close(stop)
	wg.Wait()

	assert.Eventually(t, func() bool {
		return notifier.AdminClientCount() == 0 && notifier.GuestClientCount("alice") == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSlowClientDoesNotBlockPublisher(t *testing.T) {
	notifier := sse.NewNotifier()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier.SubscribeAdmins(ctx)

	// Overflow the channel buffer without draining it; sends are
	// non-blocking, so this must return promptly
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			notifier.NotifyAdmins(models.Notification{Type: models.NotificationNewOrder, Payload: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publisher blocked on a slow client")
	}
}
