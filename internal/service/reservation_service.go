package service

import (
	"context"
	"log"
	"time"

	"github.com/eventflow/event-booking/internal/model"
	"github.com/eventflow/event-booking/internal/queue"
	"github.com/eventflow/event-booking/internal/repository"
)

// ReservationStore is the reservation persistence contract.  Book must
// be atomic: the conditional seat increment and the unique-keyed insert
// either both commit or both roll back.  UpdateStatusFrom must key the
// write on the previous status in the store itself, not on a prior read.
type ReservationStore interface {
	Book(ctx context.Context, userID, eventID uint64) (*model.Reservation, error)
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Reservation, error)
	UpdateStatusFrom(ctx context.Context, id uint64, status string, from ...string) (bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error)
	ListByEvent(ctx context.Context, eventID uint64) ([]repository.ReservationWithUser, error)
	GetTicketDetail(ctx context.Context, id, userID uint64) (*repository.TicketDetail, error)
}

// SeatReleaser is the slice of the event store used for seat release.
// Claiming happens inside ReservationStore.Book; releasing is a
// standalone floored decrement.
type SeatReleaser interface {
	ReleaseSeat(ctx context.Context, eventID uint64) error
}

// TicketRenderer produces the downloadable ticket bytes.
type TicketRenderer interface {
	Render(d *repository.TicketDetail) ([]byte, error)
}

// PublishFunc publishes a confirmation event to the broker.  May be nil
// when messaging is not configured.
type PublishFunc func(ctx context.Context, ev queue.ReservationConfirmedEvent) error

// ReservationService owns the reservation lifecycle:
//
//	PENDING -> CONFIRMED | REFUSED | CANCELED
//	CONFIRMED -> REFUSED | CANCELED
//
// REFUSED and CANCELED are terminal for seat accounting: entering one
// of them releases the seat exactly once, and nothing transitions back
// into a seat-holding state.
type ReservationService struct {
	reservations ReservationStore
	events       SeatReleaser
	tickets      TicketRenderer
	publish      PublishFunc
}

func NewReservationService(res ReservationStore, events SeatReleaser, tickets TicketRenderer, publish PublishFunc) *ReservationService {
	return &ReservationService{reservations: res, events: events, tickets: tickets, publish: publish}
}

// Create books one seat on a published event for a participant.  All
// guarding happens in the store's single transaction; the possible
// failures are repository.ErrEventNotFound (missing or unpublished),
// repository.ErrSoldOut and repository.ErrAlreadyBooked.
func (s *ReservationService) Create(ctx context.Context, eventID, userID uint64) (*model.Reservation, error) {
	return s.reservations.Book(ctx, userID, eventID)
}

// FindMine returns the participant's reservations with event details,
// newest first.
func (s *ReservationService) FindMine(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// FindByEvent returns an event's reservations with user details (admin).
func (s *ReservationService) FindByEvent(ctx context.Context, eventID uint64) ([]repository.ReservationWithUser, error) {
	return s.reservations.ListByEvent(ctx, eventID)
}

// UpdateStatus applies an admin adjudication.  Seat accounting rules:
//
//   - entering REFUSED or CANCELED from a seat-holding state releases
//     one seat; from an already-released state it releases nothing, so
//     a repeated adjudication cannot double-free the seat;
//   - entering CONFIRMED never moves the counter (the seat was claimed
//     at creation), and is refused outright from a released state.
//
// Confirmations are announced on the broker; a publish failure is
// logged and ignored because the booking itself already committed.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint64, status string) (*model.Reservation, error) {
	switch status {
	case model.ReservationConfirmed, model.ReservationRefused, model.ReservationCanceled:
	default:
		return nil, ErrInvalidStatus
	}

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prev := res.Status

	if status == model.ReservationConfirmed {
		if !model.HoldsSeat(prev) {
			return nil, ErrReopenNotAllowed
		}
		ok, err := s.reservations.UpdateStatusFrom(ctx, id, status,
			model.ReservationPending, model.ReservationConfirmed)
		if err != nil {
			return nil, err
		}
		if !ok {
			// A racing transition released the seat after the read.
			return nil, ErrReopenNotAllowed
		}
		res.Status = status
		if prev != model.ReservationConfirmed {
			s.announceConfirmed(ctx, res)
		}
		return res, nil
	}

	// REFUSED or CANCELED.  The write is keyed on the previous status
	// in the store, so of two adjudications racing out of a seat-holding
	// state exactly one observes held==true and releases the seat.
	held, err := s.reservations.UpdateStatusFrom(ctx, id, status,
		model.ReservationPending, model.ReservationConfirmed)
	if err != nil {
		return nil, err
	}
	if held {
		if err := s.events.ReleaseSeat(ctx, res.EventID); err != nil {
			return nil, err
		}
	} else {
		// The seat was already released; this only renames the
		// terminal state.
		ok, err := s.reservations.UpdateStatusFrom(ctx, id, status,
			model.ReservationRefused, model.ReservationCanceled)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, repository.ErrReservationNotFound
		}
	}
	res.Status = status
	return res, nil
}

// Cancel is the participant self-service path.  Ownership is enforced
// by the scoped lookup; canceling twice fails with ErrAlreadyCanceled;
// canceling a REFUSED reservation flips the status without touching the
// counter because that seat was already released.
func (s *ReservationService) Cancel(ctx context.Context, id, userID uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if res.Status == model.ReservationCanceled {
		return nil, ErrAlreadyCanceled
	}
	held, err := s.reservations.UpdateStatusFrom(ctx, id, model.ReservationCanceled,
		model.ReservationPending, model.ReservationConfirmed)
	if err != nil {
		return nil, err
	}
	if held {
		if err := s.events.ReleaseSeat(ctx, res.EventID); err != nil {
			return nil, err
		}
	} else {
		// The seat is already back in the pool: the snapshot was
		// REFUSED, or a racing adjudication released it first.
		ok, err := s.reservations.UpdateStatusFrom(ctx, id, model.ReservationCanceled,
			model.ReservationRefused)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAlreadyCanceled
		}
	}
	res.Status = model.ReservationCanceled
	return res, nil
}

// TicketPDF renders the ticket for a confirmed reservation owned by
// userID. ErrNotConfirmed for any other status.
func (s *ReservationService) TicketPDF(ctx context.Context, id, userID uint64) ([]byte, error) {
	detail, err := s.reservations.GetTicketDetail(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if detail.Status != model.ReservationConfirmed {
		return nil, ErrNotConfirmed
	}
	return s.tickets.Render(detail)
}

func (s *ReservationService) announceConfirmed(ctx context.Context, res *model.Reservation) {
	if s.publish == nil {
		return
	}
	detail, err := s.reservations.GetTicketDetail(ctx, res.ID, res.UserID)
	if err != nil {
		log.Printf("reservation: load detail for confirmation event failed: %v", err)
		return
	}
	ev := queue.ReservationConfirmedEvent{
		ReservationID: detail.ReservationID,
		UserID:        detail.UserID,
		UserFullName:  detail.UserFullName,
		UserEmail:     detail.UserEmail,
		EventID:       detail.EventID,
		EventTitle:    detail.EventTitle,
		EventDate:     detail.EventDate.UTC().Format(time.RFC3339),
		EventLocation: detail.EventLocation,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("reservation: publish confirmation event failed: %v", err)
	}
}
