package models

import (
	"time"

	"gorm.io/gorm"
)

// Vehicle represents a vehicle known to the workshop. The normalized plate
// is the natural key; the client reference is weak and may be nil for
// vehicles sighted before their owner was registered.
type Vehicle struct {
	Plate    string `gorm:"primaryKey;size:8;column:patente" json:"patente"`
	Make     string `gorm:"column:marca" json:"marca,omitempty"`
	Model    string `gorm:"column:modelo" json:"modelo,omitempty"`
	Year     int    `gorm:"column:anio" json:"anio,omitempty"`
	Engine   string `gorm:"column:motor" json:"motor,omitempty"`
	Color    string `gorm:"column:color" json:"color,omitempty"`
	ClientID *uint  `gorm:"column:cliente_id;index" json:"cliente_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Vehicle model
func (Vehicle) TableName() string {
	return "vehiculos"
}

// VehiclePatch is a partial vehicle update. Unset fields are left alone;
// explicit nulls clear nullable columns.
type VehiclePatch struct {
	Make     Optional[string] `json:"marca"`
	Model    Optional[string] `json:"modelo"`
	Year     Optional[int]    `json:"anio"`
	Engine   Optional[string] `json:"motor"`
	Color    Optional[string] `json:"color"`
	ClientID Optional[uint]   `json:"cliente_id"`
}

// Apply merges the patch onto a vehicle in place.
func (p *VehiclePatch) Apply(v *Vehicle) {
	if p.Make.Set && p.Make.Value != nil {
		v.Make = *p.Make.Value
	}
	if p.Model.Set && p.Model.Value != nil {
		v.Model = *p.Model.Value
	}
	if p.Year.Set && p.Year.Value != nil {
		v.Year = *p.Year.Value
	}
	if p.Engine.Set && p.Engine.Value != nil {
		v.Engine = *p.Engine.Value
	}
	if p.Color.Set && p.Color.Value != nil {
		v.Color = *p.Color.Value
	}
	if p.ClientID.Set {
		v.ClientID = p.ClientID.Value
	}
}
