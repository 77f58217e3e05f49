package models

import "time"

// LookupQuota is one source's usage counter for one calendar day. Rollover
// is lazy: a row whose date no longer matches today simply stops counting.
type LookupQuota struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Source string `gorm:"column:fuente;uniqueIndex:idx_fuente_fecha;not null" json:"fuente"`
	Date   string `gorm:"column:fecha;uniqueIndex:idx_fuente_fecha;size:10;not null" json:"fecha"`
	Used   int    `gorm:"column:usados;default:0" json:"usados"`

	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for LookupQuota model
func (LookupQuota) TableName() string {
	return "lookup_quotas"
}
