package redis

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Lock serializes read-modify-write sequences against a single guest
// record, keyed guest_lock:<guestID>. Lock value is the operation ID so an
// unlock never releases someone else's lock.
type Lock struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *log.Logger
}

func NewLock(client *redis.Client, ttl time.Duration) *Lock {
	return &Lock{
		Client: client,
		TTL:    ttl,
		Logger: log.Default(),
	}
}

// AcquireGuest locks a guest for one operation.
func (l *Lock) AcquireGuest(guestID, opID string) (bool, error) {
	key := "guest_lock:" + guestID
	ok, err := l.Client.SetNX(context.Background(), key, opID, l.TTL).Result()
	return ok, err
}

// ReleaseGuest unlocks a guest if the lock is still held by this operation.
func (l *Lock) ReleaseGuest(guestID, opID string) error {
	ctx := context.Background()
	key := "guest_lock:" + guestID
	val, err := l.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released or expired
	}
	if err != nil {
		return err
	}
	if val == opID {
		_, err := l.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}
