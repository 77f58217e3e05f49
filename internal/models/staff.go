package models

import "time"

// StaffRole defines possible staff roles
type StaffRole string

const (
	StaffRoleAdmin    StaffRole = "admin"
	StaffRoleMechanic StaffRole = "mecanico"
)

// StaffProfile represents a workshop employee. Orders reference profiles by
// id for assignment display only; there is no further lifecycle.
type StaffProfile struct {
	ID           string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	FullName     string    `gorm:"column:nombre_completo;not null" json:"nombre_completo"`
	Role         StaffRole `gorm:"column:rol;default:mecanico" json:"rol"`
	Active       bool      `gorm:"column:activo;default:true" json:"activo"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for StaffProfile model
func (StaffProfile) TableName() string {
	return "perfiles"
}

// StaffPatch is a partial staff profile update.
type StaffPatch struct {
	FullName Optional[string]    `json:"nombre_completo"`
	Role     Optional[StaffRole] `json:"rol"`
	Active   Optional[bool]      `json:"activo"`
	Email    Optional[string]    `json:"email"`
}

// Apply merges the patch onto a staff profile in place.
func (p *StaffPatch) Apply(s *StaffProfile) {
	if p.FullName.Set && p.FullName.Value != nil {
		s.FullName = *p.FullName.Value
	}
	if p.Role.Set && p.Role.Value != nil {
		s.Role = *p.Role.Value
	}
	if p.Active.Set && p.Active.Value != nil {
		s.Active = *p.Active.Value
	}
	if p.Email.Set && p.Email.Value != nil {
		s.Email = *p.Email.Value
	}
}
