package models

import (
	"time"

	"gorm.io/gorm"
)

// ClientType distinguishes individual and company clients
type ClientType string

const (
	ClientTypePerson  ClientType = "persona"
	ClientTypeCompany ClientType = "empresa"
)

// Client is the strong owner of its vehicles and, through them, of order
// history. The tax id (RUT) is the lookup key the front desk uses.
type Client struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	FullName string     `gorm:"column:nombre_completo;not null" json:"nombre_completo"`
	Phone    string     `gorm:"column:telefono" json:"telefono,omitempty"`
	Email    string     `gorm:"column:email" json:"email,omitempty"`
	TaxID    string     `gorm:"column:rut;uniqueIndex" json:"rut"`
	Type     ClientType `gorm:"column:tipo;default:persona" json:"tipo"`
	Address  string     `gorm:"column:direccion" json:"direccion,omitempty"`
	Notes    string     `gorm:"column:notas;type:text" json:"notas,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Client model
func (Client) TableName() string {
	return "clientes"
}

// ClientWithStats augments a client with counters for list views.
type ClientWithStats struct {
	Client
	VehicleCount int `json:"vehiculos"`
	OrderCount   int `json:"ordenes"`
}

// ClientPatch is a partial client update.
type ClientPatch struct {
	FullName Optional[string]     `json:"nombre_completo"`
	Phone    Optional[string]     `json:"telefono"`
	Email    Optional[string]     `json:"email"`
	TaxID    Optional[string]     `json:"rut"`
	Type     Optional[ClientType] `json:"tipo"`
	Address  Optional[string]     `json:"direccion"`
	Notes    Optional[string]     `json:"notas"`
}

// Apply merges the patch onto a client in place.
func (p *ClientPatch) Apply(c *Client) {
	if p.FullName.Set && p.FullName.Value != nil {
		c.FullName = *p.FullName.Value
	}
	if p.Phone.Set && p.Phone.Value != nil {
		c.Phone = *p.Phone.Value
	}
	if p.Email.Set && p.Email.Value != nil {
		c.Email = *p.Email.Value
	}
	if p.TaxID.Set && p.TaxID.Value != nil {
		c.TaxID = *p.TaxID.Value
	}
	if p.Type.Set && p.Type.Value != nil {
		c.Type = *p.Type.Value
	}
	if p.Address.Set && p.Address.Value != nil {
		c.Address = *p.Address.Value
	}
	if p.Notes.Set && p.Notes.Value != nil {
		c.Notes = *p.Notes.Value
	}
}
