package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
)

// GormStore is the remote backend: typed queries over Postgres. It keeps
// the memory store's nil-for-not-found convention, but unlike the memory
// store it can also return real errors (connection loss, constraint
// violations), which callers must tolerate.
type GormStore struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewGormStore creates a remote store over an open connection.
func NewGormStore(db *gorm.DB, log *zap.SugaredLogger) *GormStore {
	return &GormStore{db: db, log: log}
}

// Migrate synchronizes the schema for every entity this store persists.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.Vehicle{},
		&models.Order{},
		&models.Appointment{},
		&models.Client{},
		&models.StaffProfile{},
		&models.Checklist{},
		&models.LookupQuota{},
	)
}

// notFoundToNil maps gorm's sentinel onto the store contract.
func notFoundToNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// --- Vehicles ---

func (s *GormStore) FindVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := s.db.WithContext(ctx).Where("patente = ?", models.NormalizePlate(plate)).First(&v).Error
	if err != nil {
		return nil, notFoundToNil(err)
	}
	return &v, nil
}

func (s *GormStore) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	var out []models.Vehicle
	if err := s.db.WithContext(ctx).Order("patente").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) CreateVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	rec := *v
	rec.Plate = models.NormalizePlate(rec.Plate)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) UpdateVehicle(ctx context.Context, plate string, patch *models.VehiclePatch) (*models.Vehicle, error) {
	var rec models.Vehicle
	err := s.db.WithContext(ctx).Where("patente = ?", models.NormalizePlate(plate)).First(&rec).Error
	if err != nil {
		return nil, notFoundToNil(err)
	}
	patch.Apply(&rec)
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- Orders ---

func (s *GormStore) ListOrders(ctx context.Context, filter *OrderFilter) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Order("id")
	if filter != nil {
		if filter.Status != "" {
			q = q.Where("estado = ?", filter.Status)
		}
		if filter.Plate != "" {
			q = q.Where("patente_vehiculo = ?", models.NormalizePlate(filter.Plate))
		}
	}
	var out []models.Order
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	return &o, nil
}

func (s *GormStore) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	rec := *o
	rec.Plate = models.NormalizePlate(rec.Plate)
	if rec.Status == "" {
		rec.Status = models.OrderStatusPending
	}
	if rec.IntakeAt.IsZero() {
		rec.IntakeAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) UpdateOrder(ctx context.Context, id uint, patch *models.OrderPatch) (*models.Order, error) {
	var rec models.Order
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	patch.Apply(&rec)
	// Save with Select("*") so explicit nulls reach the database instead of
	// being dropped as zero values.
	if err := s.db.WithContext(ctx).Model(&rec).Select("*").Updates(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) DeleteOrder(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Order{}, id).Error
}

// --- Appointments ---

func (s *GormStore) ListAppointments(ctx context.Context, rng *AppointmentRange) ([]models.Appointment, error) {
	q := s.db.WithContext(ctx).Order("fecha_inicio")
	if rng != nil {
		if rng.From != nil {
			q = q.Where("fecha_inicio >= ?", *rng.From)
		}
		if rng.To != nil {
			q = q.Where("fecha_inicio <= ?", *rng.To)
		}
	}
	var out []models.Appointment
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var a models.Appointment
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	return &a, nil
}

func (s *GormStore) CreateAppointment(ctx context.Context, a *models.Appointment) (*models.Appointment, error) {
	rec := *a
	rec.Plate = models.NormalizePlate(rec.Plate)
	if rec.Status == "" {
		rec.Status = models.AppointmentStatusPending
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) UpdateAppointment(ctx context.Context, id uint, patch *models.AppointmentPatch) (*models.Appointment, error) {
	var rec models.Appointment
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	patch.Apply(&rec)
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) DeleteAppointment(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Appointment{}, id).Error
}

// --- Clients ---

func (s *GormStore) FindClientByTaxID(ctx context.Context, taxID string) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).Where("upper(rut) = upper(?)", taxID).First(&c).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	return &c, nil
}

func (s *GormStore) GetClientByID(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	return &c, nil
}

func (s *GormStore) ListClients(ctx context.Context, query string) ([]models.ClientWithStats, error) {
	q := s.db.WithContext(ctx).Order("id")
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("nombre_completo ILIKE ? OR rut ILIKE ?", like, like)
	}
	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		return nil, err
	}

	out := make([]models.ClientWithStats, 0, len(clients))
	for _, c := range clients {
		var vehicleCount, orderCount int64
		s.db.WithContext(ctx).Model(&models.Vehicle{}).
			Where("cliente_id = ?", c.ID).Count(&vehicleCount)
		s.db.WithContext(ctx).Model(&models.Order{}).
			Where("patente_vehiculo IN (?)",
				s.db.Model(&models.Vehicle{}).Select("patente").Where("cliente_id = ?", c.ID)).
			Count(&orderCount)
		out = append(out, models.ClientWithStats{
			Client:       c,
			VehicleCount: int(vehicleCount),
			OrderCount:   int(orderCount),
		})
	}
	return out, nil
}

func (s *GormStore) CreateClient(ctx context.Context, c *models.Client) (*models.Client, error) {
	rec := *c
	if rec.Type == "" {
		rec.Type = models.ClientTypePerson
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) UpdateClient(ctx context.Context, id uint, patch *models.ClientPatch) (*models.Client, error) {
	var rec models.Client
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	patch.Apply(&rec)
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- Staff ---

func (s *GormStore) ListStaffProfiles(ctx context.Context) ([]models.StaffProfile, error) {
	var out []models.StaffProfile
	if err := s.db.WithContext(ctx).Order("nombre_completo").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) GetStaffByID(ctx context.Context, id string) (*models.StaffProfile, error) {
	var p models.StaffProfile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	return &p, nil
}

func (s *GormStore) FindStaffByEmail(ctx context.Context, email string) (*models.StaffProfile, error) {
	var p models.StaffProfile
	if err := s.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&p).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	return &p, nil
}

func (s *GormStore) CreateStaffProfile(ctx context.Context, p *models.StaffProfile) (*models.StaffProfile, error) {
	rec := *p
	if rec.Role == "" {
		rec.Role = models.StaffRoleMechanic
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) UpdateStaffProfile(ctx context.Context, id string, patch *models.StaffPatch) (*models.StaffProfile, error) {
	var rec models.StaffProfile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	patch.Apply(&rec)
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- Checklists ---

func (s *GormStore) GetChecklistByOrderID(ctx context.Context, orderID uint) (*models.Checklist, error) {
	var c models.Checklist
	if err := s.db.WithContext(ctx).Where("orden_id = ?", orderID).First(&c).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	return &c, nil
}

func (s *GormStore) GetChecklistByID(ctx context.Context, id uint) (*models.Checklist, error) {
	var c models.Checklist
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	return &c, nil
}

func (s *GormStore) SaveChecklist(ctx context.Context, c *models.Checklist) (*models.Checklist, error) {
	rec := *c
	if rec.ID == 0 {
		// One checklist per order: reuse the existing row if present
		var existing models.Checklist
		err := s.db.WithContext(ctx).Where("orden_id = ?", rec.OrderID).First(&existing).Error
		if err == nil {
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) UpdateChecklist(ctx context.Context, id uint, patch *models.ChecklistPatch) (*models.Checklist, error) {
	var rec models.Checklist
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	patch.Apply(&rec)
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- Lookup quotas ---

func (s *GormStore) LoadQuotaCounters(ctx context.Context) (*lookup.QuotaSnapshot, error) {
	var rows []models.LookupQuota
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	snap := &lookup.QuotaSnapshot{Date: rows[0].Date, Used: make(map[string]int, len(rows))}
	for _, row := range rows {
		snap.Used[row.Source] = row.Used
	}
	return snap, nil
}

func (s *GormStore) SaveQuotaCounters(ctx context.Context, snap *lookup.QuotaSnapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.LookupQuota{}).Error; err != nil {
			return err
		}
		for source, used := range snap.Used {
			row := models.LookupQuota{Source: source, Date: snap.Date, Used: used}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
