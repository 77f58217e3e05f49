// Package store defines the persistence contract behind the application and
// its two interchangeable backends: an in-process memory store (local mode)
// and a Postgres-backed store (remote mode). The backend is chosen once at
// startup; every caller goes through the Store interface and never branches
// on the mode again.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
)

// Mode identifies which backend backs the Store
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// ResolveMode maps the configured flag to a backend. Anything that is not
// exactly "remote" falls back to local; an unrecognized value is not an
// error.
func ResolveMode(v string) Mode {
	if strings.ToLower(strings.TrimSpace(v)) == string(ModeRemote) {
		return ModeRemote
	}
	return ModeLocal
}

// OrderFilter narrows ListOrders. Zero values match everything.
type OrderFilter struct {
	Status models.OrderStatus
	Plate  string
}

// AppointmentRange narrows ListAppointments to a time window. Nil bounds
// are open.
type AppointmentRange struct {
	From *time.Time
	To   *time.Time
}

// Store is the full persistence surface. The memory backend never returns
// an error for not-found (callers get nil, nil); the gorm backend keeps the
// same nil-for-not-found convention but can also surface real transport and
// constraint errors, which callers must tolerate.
type Store interface {
	// Vehicles
	FindVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	CreateVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, plate string, patch *models.VehiclePatch) (*models.Vehicle, error)

	// Orders
	ListOrders(ctx context.Context, filter *OrderFilter) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id uint) (*models.Order, error)
	CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uint, patch *models.OrderPatch) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uint) error

	// Appointments
	ListAppointments(ctx context.Context, rng *AppointmentRange) ([]models.Appointment, error)
	GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, a *models.Appointment) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, id uint, patch *models.AppointmentPatch) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id uint) error

	// Clients
	FindClientByTaxID(ctx context.Context, taxID string) (*models.Client, error)
	GetClientByID(ctx context.Context, id uint) (*models.Client, error)
	ListClients(ctx context.Context, query string) ([]models.ClientWithStats, error)
	CreateClient(ctx context.Context, c *models.Client) (*models.Client, error)
	UpdateClient(ctx context.Context, id uint, patch *models.ClientPatch) (*models.Client, error)

	// Staff
	ListStaffProfiles(ctx context.Context) ([]models.StaffProfile, error)
	GetStaffByID(ctx context.Context, id string) (*models.StaffProfile, error)
	FindStaffByEmail(ctx context.Context, email string) (*models.StaffProfile, error)
	CreateStaffProfile(ctx context.Context, s *models.StaffProfile) (*models.StaffProfile, error)
	UpdateStaffProfile(ctx context.Context, id string, patch *models.StaffPatch) (*models.StaffProfile, error)

	// Checklists
	GetChecklistByOrderID(ctx context.Context, orderID uint) (*models.Checklist, error)
	GetChecklistByID(ctx context.Context, id uint) (*models.Checklist, error)
	SaveChecklist(ctx context.Context, c *models.Checklist) (*models.Checklist, error)
	UpdateChecklist(ctx context.Context, id uint, patch *models.ChecklistPatch) (*models.Checklist, error)

	// Lookup quota persistence (see lookup.QuotaStore)
	LoadQuotaCounters(ctx context.Context) (*lookup.QuotaSnapshot, error)
	SaveQuotaCounters(ctx context.Context, snap *lookup.QuotaSnapshot) error
}
