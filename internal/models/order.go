package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrderStatus defines possible work order statuses
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pendiente"  // Awaiting work
	OrderStatusInProgress OrderStatus = "en_proceso" // Currently being worked on
	OrderStatusReady      OrderStatus = "lista"      // Work finished, vehicle awaiting pickup
	OrderStatusCompleted  OrderStatus = "completada" // Delivered and closed
	OrderStatusCancelled  OrderStatus = "cancelada"  // Archived, never physically removed

	// OrderStatusScheduled is a projection-only pseudo status used when
	// appointments are shown alongside orders in list views. It is never
	// persisted on an order row.
	OrderStatusScheduled OrderStatus = "agendado"
)

// IsTerminal reports whether the status closes the order's lifecycle.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// PaymentLine is one entry of an order's payment-method breakdown.
// When lines are present their amounts must sum to the order total; that
// invariant is enforced by callers, not by the stores.
type PaymentLine struct {
	Method string  `json:"metodo"`
	Amount float64 `json:"monto"`
}

// Order represents a work order through its whole lifecycle, from intake to
// delivery. Vehicle, client and staff are referenced by natural/opaque key
// so any of them can be edited without rewriting orders.
type Order struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	Plate             string      `gorm:"column:patente_vehiculo;size:8;index" json:"patente_vehiculo"`
	IntakeDescription string      `gorm:"column:descripcion_ingreso;type:text" json:"descripcion_ingreso"`
	Status            OrderStatus `gorm:"column:estado;default:pendiente;index" json:"estado"`
	AssignedTo        *string     `gorm:"column:mecanico_asignado" json:"mecanico_asignado"`
	CreatedBy         string      `gorm:"column:creado_por" json:"creado_por"`

	// Denormalized at creation time so the order list renders without joins
	ClientName  string `gorm:"column:nombre_cliente" json:"nombre_cliente,omitempty"`
	ClientPhone string `gorm:"column:telefono_cliente" json:"telefono_cliente,omitempty"`

	Total          float64                          `gorm:"column:precio_total" json:"precio_total"`
	Photos         datatypes.JSONSlice[string]      `gorm:"column:fotos" json:"fotos,omitempty"`
	PaymentMethods datatypes.JSONSlice[PaymentLine] `gorm:"column:metodos_pago" json:"metodos_pago,omitempty"`

	IntakeAt    time.Time  `gorm:"column:fecha_ingreso" json:"fecha_ingreso"`
	ReadyAt     *time.Time `gorm:"column:fecha_lista" json:"fecha_lista"`
	DeliveredAt *time.Time `gorm:"column:fecha_entrega" json:"fecha_entrega"`
	CompletedAt *time.Time `gorm:"column:fecha_completada" json:"fecha_completada"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Order model
func (Order) TableName() string {
	return "ordenes"
}

// PaymentsBalance reports whether the payment breakdown sums to the order
// total. Orders without payment lines always balance.
func (o *Order) PaymentsBalance() bool {
	if len(o.PaymentMethods) == 0 {
		return true
	}
	var sum float64
	for _, line := range o.PaymentMethods {
		sum += line.Amount
	}
	diff := sum - o.Total
	return diff < 0.005 && diff > -0.005
}

// OrderPatch is a partial order update. Nullable timestamp fields accept an
// explicit null to clear a previously set value; the stores persist exactly
// what the patch carries and perform no implicit cleanup.
type OrderPatch struct {
	IntakeDescription Optional[string]        `json:"descripcion_ingreso"`
	Status            Optional[OrderStatus]   `json:"estado"`
	AssignedTo        Optional[string]        `json:"mecanico_asignado"`
	ClientName        Optional[string]        `json:"nombre_cliente"`
	ClientPhone       Optional[string]        `json:"telefono_cliente"`
	Total             Optional[float64]       `json:"precio_total"`
	Photos            Optional[[]string]      `json:"fotos"`
	PaymentMethods    Optional[[]PaymentLine] `json:"metodos_pago"`
	ReadyAt           Optional[time.Time]     `json:"fecha_lista"`
	DeliveredAt       Optional[time.Time]     `json:"fecha_entrega"`
	CompletedAt       Optional[time.Time]     `json:"fecha_completada"`
}

// Apply merges the patch onto an order in place.
func (p *OrderPatch) Apply(o *Order) {
	if p.IntakeDescription.Set && p.IntakeDescription.Value != nil {
		o.IntakeDescription = *p.IntakeDescription.Value
	}
	if p.Status.Set && p.Status.Value != nil {
		o.Status = *p.Status.Value
	}
	if p.AssignedTo.Set {
		o.AssignedTo = p.AssignedTo.Value
	}
	if p.ClientName.Set && p.ClientName.Value != nil {
		o.ClientName = *p.ClientName.Value
	}
	if p.ClientPhone.Set && p.ClientPhone.Value != nil {
		o.ClientPhone = *p.ClientPhone.Value
	}
	if p.Total.Set && p.Total.Value != nil {
		o.Total = *p.Total.Value
	}
	if p.Photos.Set {
		if p.Photos.Value == nil {
			o.Photos = nil
		} else {
			o.Photos = datatypes.NewJSONSlice(*p.Photos.Value)
		}
	}
	if p.PaymentMethods.Set {
		if p.PaymentMethods.Value == nil {
			o.PaymentMethods = nil
		} else {
			o.PaymentMethods = datatypes.NewJSONSlice(*p.PaymentMethods.Value)
		}
	}
	if p.ReadyAt.Set {
		o.ReadyAt = p.ReadyAt.Value
	}
	if p.DeliveredAt.Set {
		o.DeliveredAt = p.DeliveredAt.Value
	}
	if p.CompletedAt.Set {
		o.CompletedAt = p.CompletedAt.Value
	}
}
