package models

import (
	"time"

	"gorm.io/datatypes"
)

// Photo fields that must be present before an intake checklist can be
// marked reviewed, unless the bypass flag is set.
const (
	ChecklistPhotoFuelLevel = "nivel_combustible"
	ChecklistPhotoOdometer  = "kilometraje"
)

// Checklist is the structured inspection record attached 1:1 to a work
// order. Items holds boolean/numeric inspection fields keyed by name,
// Photos holds photo URLs keyed by field name. The exit sub-record is
// added later in the order's life, when the vehicle leaves.
type Checklist struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"column:orden_id;uniqueIndex;not null" json:"orden_id"`

	Items  datatypes.JSONMap `gorm:"column:items" json:"items,omitempty"`
	Photos datatypes.JSONMap `gorm:"column:fotos" json:"fotos,omitempty"`

	FuelLevel *float64 `gorm:"column:nivel_combustible" json:"nivel_combustible,omitempty"`
	Odometer  *int     `gorm:"column:kilometraje" json:"kilometraje,omitempty"`

	Reviewed     bool           `gorm:"column:revisado;default:false" json:"revisado"`
	ReviewBypass bool           `gorm:"column:omitir_fotos;default:false" json:"omitir_fotos"`
	ExitData     datatypes.JSON `gorm:"column:checklist_salida" json:"checklist_salida,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Checklist model
func (Checklist) TableName() string {
	return "checklists"
}

// HasMandatoryPhotos reports whether the fuel-level and odometer photos are
// attached.
func (c *Checklist) HasMandatoryPhotos() bool {
	for _, field := range []string{ChecklistPhotoFuelLevel, ChecklistPhotoOdometer} {
		url, ok := c.Photos[field]
		if !ok {
			return false
		}
		if s, ok := url.(string); !ok || s == "" {
			return false
		}
	}
	return true
}

// ChecklistPatch is a partial checklist update.
type ChecklistPatch struct {
	Items        Optional[map[string]interface{}] `json:"items"`
	Photos       Optional[map[string]interface{}] `json:"fotos"`
	FuelLevel    Optional[float64]                `json:"nivel_combustible"`
	Odometer     Optional[int]                    `json:"kilometraje"`
	ReviewBypass Optional[bool]                   `json:"omitir_fotos"`
}

// Apply merges the patch onto a checklist in place. Item and photo maps are
// merged key by key so one upload does not wipe earlier ones.
func (p *ChecklistPatch) Apply(c *Checklist) {
	if p.Items.Set && p.Items.Value != nil {
		if c.Items == nil {
			c.Items = datatypes.JSONMap{}
		}
		for k, v := range *p.Items.Value {
			c.Items[k] = v
		}
	}
	if p.Photos.Set && p.Photos.Value != nil {
		if c.Photos == nil {
			c.Photos = datatypes.JSONMap{}
		}
		for k, v := range *p.Photos.Value {
			c.Photos[k] = v
		}
	}
	if p.FuelLevel.Set {
		c.FuelLevel = p.FuelLevel.Value
	}
	if p.Odometer.Set {
		c.Odometer = p.Odometer.Value
	}
	if p.ReviewBypass.Set && p.ReviewBypass.Value != nil {
		c.ReviewBypass = *p.ReviewBypass.Value
	}
}
