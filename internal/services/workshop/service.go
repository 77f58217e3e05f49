// Package workshop holds the business rules that sit between the HTTP
// handlers and the storage backends: vehicle auto-creation at intake,
// order lifecycle timestamps, appointment conversion and the checklist
// review gate. The stores stay dumb; everything that must hold across both
// backends lives here.
package workshop

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/store"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/ws"
)

var (
	// ErrPaymentMismatch means the payment breakdown does not sum to the
	// order total.
	ErrPaymentMismatch = errors.New("payment methods do not sum to order total")

	// ErrMissingIntakePhotos means the fuel-level or odometer photo is
	// missing and the bypass flag is not set.
	ErrMissingIntakePhotos = errors.New("fuel-level and odometer photos are required before review")

	// ErrAppointmentNotPending means the appointment is not in a state
	// that can be confirmed.
	ErrAppointmentNotPending = errors.New("only pending appointments can be confirmed")
)

// Service implements the operations the UI consumes.
type Service struct {
	store  store.Store
	engine *lookup.Engine
	hub    *ws.Hub
	log    *zap.SugaredLogger
	now    func() time.Time
}

// NewService creates a workshop service. engine and hub may be nil when the
// caller does not need plate resolution or board events.
func NewService(st store.Store, engine *lookup.Engine, hub *ws.Hub, log *zap.SugaredLogger) *Service {
	return &Service{store: st, engine: engine, hub: hub, log: log, now: time.Now}
}

// CreateOrder validates the payment invariant, ensures the vehicle row
// exists (first sighting of a plate creates it), and persists the order.
func (s *Service) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	if !o.PaymentsBalance() {
		return nil, ErrPaymentMismatch
	}

	plate := models.NormalizePlate(o.Plate)
	if plate != "" {
		existing, err := s.store.FindVehicleByPlate(ctx, plate)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			if _, err := s.store.CreateVehicle(ctx, &models.Vehicle{Plate: plate}); err != nil {
				return nil, err
			}
			s.log.Infow("vehicle auto-created at intake", "plate", plate)
		}
	}

	created, err := s.store.CreateOrder(ctx, o)
	if err != nil {
		return nil, err
	}

	s.hub.Broadcast(ws.Event{Type: ws.EventOrderCreated, OrderID: created.ID, Status: string(created.Status)})
	s.log.Infow("order created", "id", created.ID, "plate", created.Plate, "by", created.CreatedBy)
	return created, nil
}

// UpdateOrder applies lifecycle rules before persisting a patch:
//   - advancing to lista / completada stamps the matching timestamp when
//     the caller did not supply one
//   - reverting to pendiente clears fecha_lista, fecha_entrega and
//     fecha_completada with explicit nulls, since the stores perform no
//     implicit cleanup
func (s *Service) UpdateOrder(ctx context.Context, id uint, patch *models.OrderPatch) (*models.Order, error) {
	current, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	if patch.Status.Set && patch.Status.Value != nil {
		switch *patch.Status.Value {
		case models.OrderStatusPending:
			if current.Status != models.OrderStatusPending {
				if !patch.ReadyAt.Set {
					patch.ReadyAt = models.Null[time.Time]()
				}
				if !patch.DeliveredAt.Set {
					patch.DeliveredAt = models.Null[time.Time]()
				}
				if !patch.CompletedAt.Set {
					patch.CompletedAt = models.Null[time.Time]()
				}
			}
		case models.OrderStatusReady:
			if !patch.ReadyAt.Set {
				patch.ReadyAt = models.Some(s.now())
			}
		case models.OrderStatusCompleted:
			if !patch.CompletedAt.Set {
				patch.CompletedAt = models.Some(s.now())
			}
		}
	}

	// Validate the payment invariant against the order as it will be after
	// the patch.
	projected := *current
	patch.Apply(&projected)
	if !projected.PaymentsBalance() {
		return nil, ErrPaymentMismatch
	}

	updated, err := s.store.UpdateOrder(ctx, id, patch)
	if err != nil || updated == nil {
		return updated, err
	}

	if updated.Status != current.Status {
		s.hub.Broadcast(ws.Event{Type: ws.EventOrderStatusChanged, OrderID: updated.ID, Status: string(updated.Status)})
		s.log.Infow("order status changed", "id", updated.ID,
			"from", current.Status, "to", updated.Status)
	}
	return updated, nil
}

// ConfirmAppointment converts a pending appointment into a new work order.
// The appointment row remains, flipped to confirmada; the two records stay
// linked only by the copied plate and client fields.
func (s *Service) ConfirmAppointment(ctx context.Context, id uint) (*models.Order, error) {
	appt, err := s.store.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, nil
	}
	if appt.Status != models.AppointmentStatusPending {
		return nil, ErrAppointmentNotPending
	}

	order, err := s.CreateOrder(ctx, &models.Order{
		Plate:             appt.Plate,
		IntakeDescription: appt.RequestedService,
		ClientName:        appt.ClientName,
		ClientPhone:       appt.ClientPhone,
		CreatedBy:         appt.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	confirmed := models.AppointmentStatusConfirmed
	if _, err := s.store.UpdateAppointment(ctx, id, &models.AppointmentPatch{
		Status: models.Some(confirmed),
	}); err != nil {
		return nil, err
	}

	s.hub.Broadcast(ws.Event{Type: ws.EventAppointmentUpdated, Payload: map[string]interface{}{
		"cita_id":  id,
		"orden_id": order.ID,
	}})
	s.log.Infow("appointment confirmed", "appointment", id, "order", order.ID)
	return order, nil
}

// ConfirmIntakeReview marks an intake checklist reviewed, enforcing the
// mandatory photo invariant unless the bypass flag is set, and optionally
// attaches the exit checklist sub-record.
func (s *Service) ConfirmIntakeReview(ctx context.Context, checklistID uint, exitData json.RawMessage) (*models.Checklist, error) {
	c, err := s.store.GetChecklistByID(ctx, checklistID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	if !c.ReviewBypass && !c.HasMandatoryPhotos() {
		return nil, ErrMissingIntakePhotos
	}

	c.Reviewed = true
	if len(exitData) > 0 {
		c.ExitData = []byte(exitData)
	}
	return s.store.SaveChecklist(ctx, c)
}

// ResolvePlate resolves external vehicle data for a plate through the
// source chain. It does not touch the stores; persisting the result is the
// caller's decision.
func (s *Service) ResolvePlate(ctx context.Context, plate string) (*lookup.VehicleData, error) {
	return s.engine.Resolve(ctx, plate)
}
