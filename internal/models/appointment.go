package models

import "time"

// AppointmentStatus defines possible appointment statuses
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pendiente"
	AppointmentStatusConfirmed AppointmentStatus = "confirmada"
	AppointmentStatusCompleted AppointmentStatus = "completada"
	AppointmentStatusCancelled AppointmentStatus = "cancelada"
)

// Appointment is a scheduled visit. Confirming one creates a new work order
// that copies the plate and client fields; the appointment row remains and
// only its status changes.
type Appointment struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	StartsAt         time.Time         `gorm:"column:fecha_inicio;index" json:"fecha_inicio"`
	EndsAt           time.Time         `gorm:"column:fecha_fin" json:"fecha_fin"`
	ClientName       string            `gorm:"column:nombre_cliente" json:"nombre_cliente"`
	ClientPhone      string            `gorm:"column:telefono_cliente" json:"telefono_cliente,omitempty"`
	Plate            string            `gorm:"column:patente_vehiculo;size:8;index" json:"patente_vehiculo"`
	RequestedService string            `gorm:"column:servicio_solicitado;type:text" json:"servicio_solicitado,omitempty"`
	Status           AppointmentStatus `gorm:"column:estado;default:pendiente;index" json:"estado"`
	CreatedBy        string            `gorm:"column:creado_por" json:"creado_por"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Appointment model
func (Appointment) TableName() string {
	return "citas"
}

// AppointmentPatch is a partial appointment update.
type AppointmentPatch struct {
	StartsAt         Optional[time.Time]         `json:"fecha_inicio"`
	EndsAt           Optional[time.Time]         `json:"fecha_fin"`
	ClientName       Optional[string]            `json:"nombre_cliente"`
	ClientPhone      Optional[string]            `json:"telefono_cliente"`
	Plate            Optional[string]            `json:"patente_vehiculo"`
	RequestedService Optional[string]            `json:"servicio_solicitado"`
	Status           Optional[AppointmentStatus] `json:"estado"`
}

// Apply merges the patch onto an appointment in place.
func (p *AppointmentPatch) Apply(a *Appointment) {
	if p.StartsAt.Set && p.StartsAt.Value != nil {
		a.StartsAt = *p.StartsAt.Value
	}
	if p.EndsAt.Set && p.EndsAt.Value != nil {
		a.EndsAt = *p.EndsAt.Value
	}
	if p.ClientName.Set && p.ClientName.Value != nil {
		a.ClientName = *p.ClientName.Value
	}
	if p.ClientPhone.Set && p.ClientPhone.Value != nil {
		a.ClientPhone = *p.ClientPhone.Value
	}
	if p.Plate.Set && p.Plate.Value != nil {
		a.Plate = NormalizePlate(*p.Plate.Value)
	}
	if p.RequestedService.Set && p.RequestedService.Value != nil {
		a.RequestedService = *p.RequestedService.Value
	}
	if p.Status.Set && p.Status.Value != nil {
		a.Status = *p.Status.Value
	}
}
