package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/config"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/database"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/store"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/utils"
)

func main() {
	fmt.Println("🌱 Taller Demo Data Seeder")
	fmt.Println("==========================")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	base, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	logger := base.Sugar()

	ctx := context.Background()
	mode := store.ResolveMode(cfg.StorageMode)
	fmt.Printf("🗄️  Storage mode: %s\n\n", mode)

	var st store.Store
	switch mode {
	case store.ModeRemote:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer db.Close()

		gs := store.NewGormStore(db.DB, logger)
		fmt.Println("🔨 Running database migrations...")
		if err := gs.Migrate(); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		fmt.Println("✅ Migrations complete")
		st = gs
	default:
		ms, err := store.NewMemoryStore(cfg.SnapshotPath, logger)
		if err != nil {
			log.Fatalf("❌ Failed to initialize local store: %v", err)
		}
		st = ms
	}

	// Refuse to double-seed
	existing, err := st.ListOrders(ctx, nil)
	if err != nil {
		log.Fatalf("❌ Failed to inspect store: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("⚠️  Store already has %d orders. Aborting, nothing modified.\n", len(existing))
		return
	}

	fmt.Println("👤 Creating staff profiles...")
	adminHash, err := utils.HashPassword("admin123")
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}
	mechHash, err := utils.HashPassword("taller123")
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	admin, err := st.CreateStaffProfile(ctx, &models.StaffProfile{
		FullName:     "Valentina Rojas",
		Role:         models.StaffRoleAdmin,
		Active:       true,
		Email:        "valentina@taller.cl",
		PasswordHash: adminHash,
	})
	if err != nil {
		log.Fatalf("❌ Failed to create admin profile: %v", err)
	}
	mechanic, err := st.CreateStaffProfile(ctx, &models.StaffProfile{
		FullName:     "Marco Saavedra",
		Role:         models.StaffRoleMechanic,
		Active:       true,
		Email:        "marco@taller.cl",
		PasswordHash: mechHash,
	})
	if err != nil {
		log.Fatalf("❌ Failed to create mechanic profile: %v", err)
	}
	fmt.Printf("   ✓ %s (admin)\n   ✓ %s (mecanico)\n", admin.Email, mechanic.Email)

	fmt.Println("👥 Creating clients...")
	clients := []models.Client{
		{
			FullName: "Carolina Méndez",
			Phone:    "+56 9 8123 4567",
			Email:    "carolina.mendez@gmail.com",
			TaxID:    "12.345.678-5",
			Type:     models.ClientTypePerson,
			Address:  "Av. Providencia 1234, Santiago",
		},
		{
			FullName: "Transportes Del Sur SpA",
			Phone:    "+56 2 2987 6543",
			Email:    "flota@transportesdelsur.cl",
			TaxID:    "76.543.210-K",
			Type:     models.ClientTypeCompany,
			Address:  "Camino a Melipilla 8800, Maipú",
			Notes:    "Flota de 6 camionetas, facturación mensual",
		},
	}
	created := make([]*models.Client, 0, len(clients))
	for i := range clients {
		c, err := st.CreateClient(ctx, &clients[i])
		if err != nil {
			log.Fatalf("❌ Failed to create client %s: %v", clients[i].FullName, err)
		}
		created = append(created, c)
		fmt.Printf("   ✓ %s (%s)\n", c.FullName, c.TaxID)
	}

	fmt.Println("🚗 Creating vehicles...")
	vehicles := []models.Vehicle{
		{Plate: "ABCD12", Make: "Toyota", Model: "Hilux", Year: 2019, Engine: "2.4 D", Color: "Blanco", ClientID: &created[1].ID},
		{Plate: "KJXZ34", Make: "Hyundai", Model: "Accent", Year: 2021, Engine: "1.6", Color: "Gris", ClientID: &created[0].ID},
		{Plate: "GHPR56", Make: "Chevrolet", Model: "Sail", Year: 2017, Engine: "1.5", Color: "Rojo"},
	}
	for i := range vehicles {
		v, err := st.CreateVehicle(ctx, &vehicles[i])
		if err != nil {
			log.Fatalf("❌ Failed to create vehicle %s: %v", vehicles[i].Plate, err)
		}
		fmt.Printf("   ✓ %s %s %s\n", v.Plate, v.Make, v.Model)
	}

	fmt.Println("🧾 Creating work orders...")
	now := time.Now()
	mechName := mechanic.FullName
	orders := []models.Order{
		{
			Plate:             "ABCD12",
			IntakeDescription: "Mantención 60.000 km, cambio de aceite y filtros",
			Status:            models.OrderStatusInProgress,
			AssignedTo:        &mechName,
			CreatedBy:         admin.Email,
			ClientName:        created[1].FullName,
			ClientPhone:       created[1].Phone,
			Total:             185000,
			IntakeAt:          now.Add(-48 * time.Hour),
		},
		{
			Plate:             "KJXZ34",
			IntakeDescription: "Ruido en tren delantero al frenar",
			Status:            models.OrderStatusPending,
			CreatedBy:         admin.Email,
			ClientName:        created[0].FullName,
			ClientPhone:       created[0].Phone,
			IntakeAt:          now.Add(-3 * time.Hour),
		},
		{
			Plate:             "GHPR56",
			IntakeDescription: "Cambio de pastillas y discos",
			Status:            models.OrderStatusReady,
			AssignedTo:        &mechName,
			CreatedBy:         admin.Email,
			Total:             120000,
			PaymentMethods: datatypes.NewJSONSlice([]models.PaymentLine{
				{Method: "efectivo", Amount: 50000},
				{Method: "tarjeta", Amount: 70000},
			}),
			IntakeAt: now.Add(-5 * 24 * time.Hour),
			ReadyAt:  &now,
		},
	}
	for i := range orders {
		o, err := st.CreateOrder(ctx, &orders[i])
		if err != nil {
			log.Fatalf("❌ Failed to create order for %s: %v", orders[i].Plate, err)
		}
		fmt.Printf("   ✓ #%d %s [%s]\n", o.ID, o.Plate, o.Status)
	}

	fmt.Println("📅 Creating appointments...")
	tomorrow := now.Add(24 * time.Hour).Truncate(time.Hour)
	appointments := []models.Appointment{
		{
			StartsAt:         tomorrow.Add(10 * time.Hour),
			EndsAt:           tomorrow.Add(11 * time.Hour),
			ClientName:       "Pedro Fuentealba",
			ClientPhone:      "+56 9 5555 1212",
			Plate:            "LMWQ78",
			RequestedService: "Diagnóstico scanner, testigo de motor encendido",
			Status:           models.AppointmentStatusPending,
			CreatedBy:        admin.Email,
		},
		{
			StartsAt:         tomorrow.Add(15 * time.Hour),
			EndsAt:           tomorrow.Add(16 * time.Hour),
			ClientName:       created[0].FullName,
			ClientPhone:      created[0].Phone,
			Plate:            "KJXZ34",
			RequestedService: "Alineación y balanceo",
			Status:           models.AppointmentStatusPending,
			CreatedBy:        admin.Email,
		},
	}
	for i := range appointments {
		a, err := st.CreateAppointment(ctx, &appointments[i])
		if err != nil {
			log.Fatalf("❌ Failed to create appointment: %v", err)
		}
		fmt.Printf("   ✓ #%d %s %s\n", a.ID, a.Plate, a.StartsAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("✅ Demo data ready")
	fmt.Println("   Login: valentina@taller.cl / admin123")
	fmt.Println("   Login: marco@taller.cl / taller123")
}
