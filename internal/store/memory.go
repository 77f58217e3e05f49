package store

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
)

// MemoryStore is the local backend: all state lives in this struct, guarded
// by one mutex, optionally snapshotted to a JSON file after each mutation.
// Not-found is always (nil, nil), never an error, so callers can use plain
// truthy checks. Instantiate one per test to avoid shared state.
type MemoryStore struct {
	mu sync.RWMutex

	vehicles     map[string]models.Vehicle
	orders       map[uint]models.Order
	appointments map[uint]models.Appointment
	clients      map[uint]models.Client
	staff        map[string]models.StaffProfile
	checklists   map[uint]models.Checklist
	quota        *lookup.QuotaSnapshot

	snapshotPath string
	log          *zap.SugaredLogger
}

// snapshot is the on-disk form of the whole store, the server-side analog
// of the browser's persisted key/value area.
type snapshot struct {
	Vehicles     map[string]models.Vehicle      `json:"vehiculos"`
	Orders       map[uint]models.Order          `json:"ordenes"`
	Appointments map[uint]models.Appointment    `json:"citas"`
	Clients      map[uint]models.Client         `json:"clientes"`
	Staff        map[string]models.StaffProfile `json:"perfiles"`
	Checklists   map[uint]models.Checklist      `json:"checklists"`
	Quota        *lookup.QuotaSnapshot          `json:"lookup_quotas,omitempty"`
}

// NewMemoryStore creates an empty local store. A non-empty snapshotPath is
// loaded if the file exists and rewritten after every mutation.
func NewMemoryStore(snapshotPath string, log *zap.SugaredLogger) (*MemoryStore, error) {
	s := &MemoryStore{
		vehicles:     make(map[string]models.Vehicle),
		orders:       make(map[uint]models.Order),
		appointments: make(map[uint]models.Appointment),
		clients:      make(map[uint]models.Client),
		staff:        make(map[string]models.StaffProfile),
		checklists:   make(map[uint]models.Checklist),
		snapshotPath: snapshotPath,
		log:          log,
	}

	if snapshotPath != "" {
		data, err := os.ReadFile(snapshotPath)
		if err == nil {
			var snap snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return nil, err
			}
			if snap.Vehicles != nil {
				s.vehicles = snap.Vehicles
			}
			if snap.Orders != nil {
				s.orders = snap.Orders
			}
			if snap.Appointments != nil {
				s.appointments = snap.Appointments
			}
			if snap.Clients != nil {
				s.clients = snap.Clients
			}
			if snap.Staff != nil {
				s.staff = snap.Staff
			}
			if snap.Checklists != nil {
				s.checklists = snap.Checklists
			}
			s.quota = snap.Quota
			log.Infow("local snapshot loaded", "path", snapshotPath,
				"orders", len(s.orders), "vehicles", len(s.vehicles))
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return s, nil
}

// persist rewrites the snapshot file. Called with the lock held. Failures
// are logged, not returned: the in-memory state is still authoritative.
func (s *MemoryStore) persist() {
	if s.snapshotPath == "" {
		return
	}
	snap := snapshot{
		Vehicles:     s.vehicles,
		Orders:       s.orders,
		Appointments: s.appointments,
		Clients:      s.clients,
		Staff:        s.staff,
		Checklists:   s.checklists,
		Quota:        s.quota,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.log.Warnw("failed to encode local snapshot", "error", err)
		return
	}
	if err := os.WriteFile(s.snapshotPath, data, 0644); err != nil {
		s.log.Warnw("failed to write local snapshot", "path", s.snapshotPath, "error", err)
	}
}

// --- Vehicles ---

func (s *MemoryStore) FindVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[models.NormalizePlate(plate)]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *MemoryStore) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return out, nil
}

func (s *MemoryStore) CreateVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *v
	rec.Plate = models.NormalizePlate(rec.Plate)
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	s.vehicles[rec.Plate] = rec
	s.persist()
	return &rec, nil
}

func (s *MemoryStore) UpdateVehicle(ctx context.Context, plate string, patch *models.VehiclePatch) (*models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.NormalizePlate(plate)
	rec, ok := s.vehicles[key]
	if !ok {
		return nil, nil
	}
	patch.Apply(&rec)
	rec.UpdatedAt = time.Now()
	s.vehicles[key] = rec
	s.persist()
	return &rec, nil
}

// --- Orders ---

func (s *MemoryStore) ListOrders(ctx context.Context, filter *OrderFilter) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter != nil {
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			if filter.Plate != "" && o.Plate != models.NormalizePlate(filter.Plate) {
				continue
			}
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *MemoryStore) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *o
	rec.ID = s.nextOrderID()
	rec.Plate = models.NormalizePlate(rec.Plate)
	if rec.Status == "" {
		rec.Status = models.OrderStatusPending
	}
	now := time.Now()
	if rec.IntakeAt.IsZero() {
		rec.IntakeAt = now
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now

	s.orders[rec.ID] = rec
	s.persist()
	return &rec, nil
}

// nextOrderID allocates max(existing ids)+1, starting at 1 for an empty
// store. Called with the lock held.
func (s *MemoryStore) nextOrderID() uint {
	var max uint
	for id := range s.orders {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func (s *MemoryStore) UpdateOrder(ctx context.Context, id uint, patch *models.OrderPatch) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&rec)
	rec.UpdatedAt = time.Now()
	s.orders[id] = rec
	s.persist()
	return &rec, nil
}

func (s *MemoryStore) DeleteOrder(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.orders, id)
	s.persist()
	return nil
}

// --- Appointments ---

func (s *MemoryStore) ListAppointments(ctx context.Context, rng *AppointmentRange) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		if rng != nil {
			if rng.From != nil && a.StartsAt.Before(*rng.From) {
				continue
			}
			if rng.To != nil && a.StartsAt.After(*rng.To) {
				continue
			}
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (s *MemoryStore) GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *MemoryStore) CreateAppointment(ctx context.Context, a *models.Appointment) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *a
	var max uint
	for id := range s.appointments {
		if id > max {
			max = id
		}
	}
	rec.ID = max + 1
	rec.Plate = models.NormalizePlate(rec.Plate)
	if rec.Status == "" {
		rec.Status = models.AppointmentStatusPending
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	s.appointments[rec.ID] = rec
	s.persist()
	return &rec, nil
}

func (s *MemoryStore) UpdateAppointment(ctx context.Context, id uint, patch *models.AppointmentPatch) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.appointments[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&rec)
	rec.UpdatedAt = time.Now()
	s.appointments[id] = rec
	s.persist()
	return &rec, nil
}

func (s *MemoryStore) DeleteAppointment(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.appointments, id)
	s.persist()
	return nil
}

// --- Clients ---

func (s *MemoryStore) FindClientByTaxID(ctx context.Context, taxID string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToUpper(strings.TrimSpace(taxID))
	for _, c := range s.clients {
		if strings.ToUpper(c.TaxID) == needle {
			rec := c
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetClientByID(ctx context.Context, id uint) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryStore) ListClients(ctx context.Context, query string) ([]models.ClientWithStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.ClientWithStats, 0, len(s.clients))
	for _, c := range s.clients {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.FullName), needle) &&
			!strings.Contains(strings.ToLower(c.TaxID), needle) {
			continue
		}
		out = append(out, models.ClientWithStats{
			Client:       c,
			VehicleCount: s.countVehicles(c.ID),
			OrderCount:   s.countOrders(c.ID),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// countVehicles counts a client's vehicles. Called with the lock held.
func (s *MemoryStore) countVehicles(clientID uint) int {
	n := 0
	for _, v := range s.vehicles {
		if v.ClientID != nil && *v.ClientID == clientID {
			n++
		}
	}
	return n
}

// countOrders counts orders against any of a client's vehicles. Called with
// the lock held.
func (s *MemoryStore) countOrders(clientID uint) int {
	plates := make(map[string]bool)
	for _, v := range s.vehicles {
		if v.ClientID != nil && *v.ClientID == clientID {
			plates[v.Plate] = true
		}
	}
	n := 0
	for _, o := range s.orders {
		if plates[o.Plate] {
			n++
		}
	}
	return n
}

func (s *MemoryStore) CreateClient(ctx context.Context, c *models.Client) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *c
	var max uint
	for id := range s.clients {
		if id > max {
			max = id
		}
	}
	rec.ID = max + 1
	if rec.Type == "" {
		rec.Type = models.ClientTypePerson
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	s.clients[rec.ID] = rec
	s.persist()
	return &rec, nil
}

func (s *MemoryStore) UpdateClient(ctx context.Context, id uint, patch *models.ClientPatch) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&rec)
	rec.UpdatedAt = time.Now()
	s.clients[id] = rec
	s.persist()
	return &rec, nil
}

// --- Staff ---

func (s *MemoryStore) ListStaffProfiles(ctx context.Context) ([]models.StaffProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.StaffProfile, 0, len(s.staff))
	for _, p := range s.staff {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (s *MemoryStore) GetStaffByID(ctx context.Context, id string) (*models.StaffProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.staff[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *MemoryStore) FindStaffByEmail(ctx context.Context, email string) (*models.StaffProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(email))
	for _, p := range s.staff {
		if strings.ToLower(p.Email) == needle {
			rec := p
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateStaffProfile(ctx context.Context, p *models.StaffProfile) (*models.StaffProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *p
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Role == "" {
		rec.Role = models.StaffRoleMechanic
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	s.staff[rec.ID] = rec
	s.persist()
	return &rec, nil
}

func (s *MemoryStore) UpdateStaffProfile(ctx context.Context, id string, patch *models.StaffPatch) (*models.StaffProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.staff[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&rec)
	rec.UpdatedAt = time.Now()
	s.staff[id] = rec
	s.persist()
	return &rec, nil
}

// --- Checklists ---

func (s *MemoryStore) GetChecklistByOrderID(ctx context.Context, orderID uint) (*models.Checklist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.checklists {
		if c.OrderID == orderID {
			rec := c
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetChecklistByID(ctx context.Context, id uint) (*models.Checklist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.checklists[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryStore) SaveChecklist(ctx context.Context, c *models.Checklist) (*models.Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *c
	now := time.Now()
	if rec.ID == 0 {
		// New checklist for this order, or replace the existing one
		for id, existing := range s.checklists {
			if existing.OrderID == rec.OrderID {
				rec.ID = id
				rec.CreatedAt = existing.CreatedAt
				break
			}
		}
	}
	if rec.ID == 0 {
		var max uint
		for id := range s.checklists {
			if id > max {
				max = id
			}
		}
		rec.ID = max + 1
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	s.checklists[rec.ID] = rec
	s.persist()
	return &rec, nil
}

func (s *MemoryStore) UpdateChecklist(ctx context.Context, id uint, patch *models.ChecklistPatch) (*models.Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.checklists[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&rec)
	rec.UpdatedAt = time.Now()
	s.checklists[id] = rec
	s.persist()
	return &rec, nil
}

// --- Lookup quotas ---

func (s *MemoryStore) LoadQuotaCounters(ctx context.Context) (*lookup.QuotaSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.quota == nil {
		return nil, nil
	}
	out := &lookup.QuotaSnapshot{Date: s.quota.Date, Used: make(map[string]int, len(s.quota.Used))}
	for k, v := range s.quota.Used {
		out.Used[k] = v
	}
	return out, nil
}

func (s *MemoryStore) SaveQuotaCounters(ctx context.Context, snap *lookup.QuotaSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := &lookup.QuotaSnapshot{Date: snap.Date, Used: make(map[string]int, len(snap.Used))}
	for k, v := range snap.Used {
		cp.Used[k] = v
	}
	s.quota = cp
	s.persist()
	return nil
}
