package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventflow/event-booking/internal/model"
	"github.com/eventflow/event-booking/internal/queue"
	"github.com/eventflow/event-booking/internal/repository"
)

// fakeReservationStore keeps reservations in memory and models the
// atomic seat claim with a simple counter: Book fails with ErrSoldOut
// once reserved reaches capacity and with ErrAlreadyBooked on a repeat
// booking by the same user.  beforeUpdate, when set, fires once at the
// start of the next UpdateStatusFrom — it stands in for another request
// writing between a caller's snapshot read and its guarded write.
type fakeReservationStore struct {
	nextID       uint64
	capacity     uint32
	reserved     uint32
	byID         map[uint64]*model.Reservation
	detail       map[uint64]*repository.TicketDetail
	beforeUpdate func()
}

func newFakeStore(capacity uint32) *fakeReservationStore {
	return &fakeReservationStore{
		nextID:   1,
		capacity: capacity,
		byID:     make(map[uint64]*model.Reservation),
		detail:   make(map[uint64]*repository.TicketDetail),
	}
}

func (f *fakeReservationStore) Book(_ context.Context, userID, eventID uint64) (*model.Reservation, error) {
	for _, r := range f.byID {
		if r.UserID == userID && r.EventID == eventID {
			return nil, repository.ErrAlreadyBooked
		}
	}
	if f.reserved >= f.capacity {
		return nil, repository.ErrSoldOut
	}
	f.reserved++
	r := &model.Reservation{ID: f.nextID, UserID: userID, EventID: eventID, Status: model.ReservationPending}
	f.byID[r.ID] = r
	f.detail[r.ID] = &repository.TicketDetail{
		ReservationID: r.ID, Status: r.Status,
		EventID: eventID, EventTitle: "Go Conf", EventLocation: "Lisbon",
		UserID: userID, UserFullName: "Ana Test", UserEmail: "ana@example.com",
	}
	f.nextID++
	return r, nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReservationStore) GetByIDForUser(_ context.Context, id, userID uint64) (*model.Reservation, error) {
	r, ok := f.byID[id]
	if !ok || r.UserID != userID {
		return nil, repository.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReservationStore) UpdateStatusFrom(_ context.Context, id uint64, status string, from ...string) (bool, error) {
	if f.beforeUpdate != nil {
		hook := f.beforeUpdate
		f.beforeUpdate = nil
		hook()
	}
	r, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, s := range from {
		if r.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	r.Status = status
	f.detail[id].Status = status
	return true, nil
}

func (f *fakeReservationStore) ListByUser(context.Context, uint64) ([]repository.ReservationDetail, error) {
	return nil, nil
}

func (f *fakeReservationStore) ListByEvent(context.Context, uint64) ([]repository.ReservationWithUser, error) {
	return nil, nil
}

func (f *fakeReservationStore) GetTicketDetail(_ context.Context, id, userID uint64) (*repository.TicketDetail, error) {
	d, ok := f.detail[id]
	if !ok || d.UserID != userID {
		return nil, repository.ErrReservationNotFound
	}
	return d, nil
}

// fakeReleaser gives the seat back to the store's counter, mirroring
// what the SQL decrement does in production.
type fakeReleaser struct {
	store *fakeReservationStore
	calls int
}

func (f *fakeReleaser) ReleaseSeat(_ context.Context, _ uint64) error {
	f.calls++
	if f.store.reserved > 0 {
		f.store.reserved--
	}
	return nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(*repository.TicketDetail) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

func newTestService(capacity uint32) (*ReservationService, *fakeReservationStore, *fakeReleaser, *[]queue.ReservationConfirmedEvent) {
	store := newFakeStore(capacity)
	rel := &fakeReleaser{store: store}
	published := &[]queue.ReservationConfirmedEvent{}
	publish := func(_ context.Context, ev queue.ReservationConfirmedEvent) error {
		*published = append(*published, ev)
		return nil
	}
	return NewReservationService(store, rel, fakeRenderer{}, publish), store, rel, published
}

func TestCreateMapsStoreErrors(t *testing.T) {
	svc, _, _, _ := newTestService(1)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationPending, res.Status)

	_, err = svc.Create(ctx, 1, 100)
	assert.ErrorIs(t, err, repository.ErrAlreadyBooked)

	_, err = svc.Create(ctx, 1, 200)
	assert.ErrorIs(t, err, repository.ErrSoldOut)
}

func TestUpdateStatusValidatesTarget(t *testing.T) {
	svc, _, _, _ := newTestService(1)

	for _, bad := range []string{"PENDING", "confirmed", "APPROVED", ""} {
		_, err := svc.UpdateStatus(context.Background(), 1, bad)
		assert.ErrorIs(t, err, ErrInvalidStatus, bad)
	}
}

func TestRefuseReleasesSeatOnce(t *testing.T) {
	svc, store, rel, published := newTestService(1)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, 100)
	require.NoError(t, err)
	require.Equal(t, uint32(1), store.reserved)

	out, err := svc.UpdateStatus(ctx, res.ID, model.ReservationRefused)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationRefused, out.Status)
	assert.Equal(t, uint32(0), store.reserved)
	assert.Equal(t, 1, rel.calls)
	assert.Empty(t, *published)

	// Re-adjudicating the same outcome must not free another seat.
	_, err = svc.UpdateStatus(ctx, res.ID, model.ReservationRefused)
	require.NoError(t, err)
	assert.Equal(t, 1, rel.calls)
}

func TestConfirmKeepsSeatAndPublishes(t *testing.T) {
	svc, store, rel, published := newTestService(1)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, 100)
	require.NoError(t, err)

	out, err := svc.UpdateStatus(ctx, res.ID, model.ReservationConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationConfirmed, out.Status)
	assert.Equal(t, uint32(1), store.reserved)
	assert.Equal(t, 0, rel.calls)

	require.Len(t, *published, 1)
	ev := (*published)[0]
	assert.Equal(t, res.ID, ev.ReservationID)
	assert.Equal(t, "ana@example.com", ev.UserEmail)
	assert.Equal(t, "Go Conf", ev.EventTitle)

	// Confirming again is idempotent: no second announcement.
	_, err = svc.UpdateStatus(ctx, res.ID, model.ReservationConfirmed)
	require.NoError(t, err)
	assert.Len(t, *published, 1)
}

func TestConfirmAfterReleaseIsRejected(t *testing.T) {
	svc, _, _, _ := newTestService(1)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, 100)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, res.ID, model.ReservationRefused)
	require.NoError(t, err)

	// The seat went back to the pool; reviving the reservation could
	// oversell the event.
	_, err = svc.UpdateStatus(ctx, res.ID, model.ReservationConfirmed)
	assert.ErrorIs(t, err, ErrReopenNotAllowed)
}

func TestRefusalFreesSeatForNextParticipant(t *testing.T) {
	svc, _, _, _ := newTestService(1)
	ctx := context.Background()

	resA, err := svc.Create(ctx, 1, 100)
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, 200)
	require.ErrorIs(t, err, repository.ErrSoldOut)

	_, err = svc.UpdateStatus(ctx, resA.ID, model.ReservationRefused)
	require.NoError(t, err)

	resB, err := svc.Create(ctx, 1, 200)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationPending, resB.Status)
}

func TestCancelOwnReservation(t *testing.T) {
	svc, store, rel, _ := newTestService(2)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, 100)
	require.NoError(t, err)

	// Someone else cannot cancel it.
	_, err = svc.Cancel(ctx, res.ID, 999)
	assert.ErrorIs(t, err, repository.ErrReservationNotFound)

	out, err := svc.Cancel(ctx, res.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationCanceled, out.Status)
	assert.Equal(t, uint32(0), store.reserved)
	assert.Equal(t, 1, rel.calls)

	_, err = svc.Cancel(ctx, res.ID, 100)
	assert.ErrorIs(t, err, ErrAlreadyCanceled)
	assert.Equal(t, 1, rel.calls)
}

func TestRacingAdjudicationsReleaseSeatOnce(t *testing.T) {
	svc, store, rel, _ := newTestService(1)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, 100)
	require.NoError(t, err)
	require.Equal(t, uint32(1), store.reserved)

	// An admin refusal lands between the owner's snapshot read and the
	// guarded cancel write.  Both sides saw a seat-holding status, but
	// only the refusal matches the guard and frees the seat; the cancel
	// degrades to a terminal-state rename.
	store.beforeUpdate = func() {
		_, err := svc.UpdateStatus(ctx, res.ID, model.ReservationRefused)
		require.NoError(t, err)
	}
	out, err := svc.Cancel(ctx, res.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationCanceled, out.Status)
	assert.Equal(t, 1, rel.calls)
	assert.Equal(t, uint32(0), store.reserved)
}

func TestCancelRefusedReservationKeepsCounter(t *testing.T) {
	svc, _, rel, _ := newTestService(1)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, 100)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, res.ID, model.ReservationRefused)
	require.NoError(t, err)
	require.Equal(t, 1, rel.calls)

	// The refusal already released the seat; the cancel only renames
	// the terminal state.
	out, err := svc.Cancel(ctx, res.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationCanceled, out.Status)
	assert.Equal(t, 1, rel.calls)
}

func TestTicketPDFOnlyForConfirmed(t *testing.T) {
	svc, _, _, _ := newTestService(1)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, 100)
	require.NoError(t, err)

	_, err = svc.TicketPDF(ctx, res.ID, 100)
	assert.ErrorIs(t, err, ErrNotConfirmed)

	_, err = svc.UpdateStatus(ctx, res.ID, model.ReservationConfirmed)
	require.NoError(t, err)

	pdf, err := svc.TicketPDF(ctx, res.ID, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	// Ownership is enforced on the ticket path as well.
	_, err = svc.TicketPDF(ctx, res.ID, 999)
	assert.ErrorIs(t, err, repository.ErrReservationNotFound)
}
