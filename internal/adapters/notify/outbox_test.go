package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	mem "pet-ledger/internal/adapters/storage/memory"
	"pet-ledger/internal/domain/pets"

	"github.com/stretchr/testify/require"
)

func TestOutbox_BlockingSinkDoesNotDelayOperations(t *testing.T) {
	release := make(chan struct{})
	delivered := make(chan pets.Notification, 4)
	blocking := pets.NotifierFunc(func(ctx context.Context, n pets.Notification) error {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
		delivered <- n
		return nil
	})

	outbox := NewOutbox(blocking, 8, time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go outbox.Run(ctx)
	t.Cleanup(func() {
		cancel()
		outbox.Wait()
	})

	svc := pets.NewService(mem.NewPetRepo(), pets.Options{ClaimKey: []byte("outbox-test-key"), Notifier: outbox})
	_, err := svc.Bootstrap(context.Background(), pets.Config{Admin: "admin-1"})
	require.NoError(t, err)

	type created struct {
		pet   pets.Pet
		token string
		err   error
	}
	createdCh := make(chan created, 1)
	go func() {
		p, tok, err := svc.Create(context.Background(), "admin-1", pets.CreateInput{Name: "Ember", Attribute: pets.AttributeFire})
		createdCh <- created{pet: p, token: tok, err: err}
	}()

	var c created
	select {
	case c = <-createdCh:
	case <-time.After(2 * time.Second):
		t.Fatal("Create waited on the notification sink")
	}
	require.NoError(t, c.err)
	require.NotEmpty(t, c.token)

	redeemed := make(chan error, 1)
	go func() {
		_, err := svc.Redeem(context.Background(), "user-1", c.token)
		redeemed <- err
	}()
	select {
	case err := <-redeemed:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Redeem waited on the notification sink")
	}

	close(release)
	for _, want := range []pets.NotificationKind{pets.NotificationPetCreated, pets.NotificationOwnershipClaimed} {
		select {
		case n := <-delivered:
			require.Equal(t, want, n.Kind)
			require.Equal(t, c.pet.ID, n.PetID)
			require.NotEmpty(t, n.ID)
		case <-time.After(2 * time.Second):
			t.Fatalf("notification %s never delivered", want)
		}
	}
}

func TestOutbox_DropsWhenFull(t *testing.T) {
	outbox := NewOutbox(pets.NotifierFunc(func(context.Context, pets.Notification) error { return nil }), 1, 0, nil)

	require.NoError(t, outbox.Notify(context.Background(), sampleNotification()))
	require.ErrorIs(t, outbox.Notify(context.Background(), sampleNotification()), ErrOutboxFull)
	require.Equal(t, 1, outbox.Pending())
}

func TestOutbox_FlushesPendingOnShutdown(t *testing.T) {
	var (
		mu  sync.Mutex
		ids []string
	)
	rec := pets.NotifierFunc(func(_ context.Context, n pets.Notification) error {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, n.ID)
		return nil
	})

	outbox := NewOutbox(rec, 4, time.Second, nil)
	for _, id := range []string{"n-1", "n-2", "n-3"} {
		n := sampleNotification()
		n.ID = id
		require.NoError(t, outbox.Notify(context.Background(), n))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outbox.Run(ctx)
	outbox.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"n-1", "n-2", "n-3"}, ids)
	require.Zero(t, outbox.Pending())
}

func TestOutbox_FailedDeliveryDoesNotStopQueue(t *testing.T) {
	var calls int
	done := make(chan struct{})
	flaky := pets.NotifierFunc(func(_ context.Context, n pets.Notification) error {
		calls++
		if calls == 1 {
			return context.DeadlineExceeded
		}
		close(done)
		return nil
	})

	outbox := NewOutbox(flaky, 4, time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go outbox.Run(ctx)
	defer func() {
		cancel()
		outbox.Wait()
	}()

	require.NoError(t, outbox.Notify(ctx, sampleNotification()))
	require.NoError(t, outbox.Notify(ctx, sampleNotification()))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second notification never delivered")
	}
}
