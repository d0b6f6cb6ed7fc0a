package model

import "time"

// Store-wide setting keys
const (
	KeyStoreName        = "nombre_tienda"
	KeyStoreDescription = "descripcion_tienda"
	KeyAdminWhatsApp    = "whatsapp_admin"
	KeySeedVersion      = "seed_version"
)

// ConfigEntry is a key-value store setting
type ConfigEntry struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Key         string    `json:"clave" gorm:"column:clave;type:varchar(50);uniqueIndex;not null"`
	Value       string    `json:"valor" gorm:"column:valor;type:text;not null"`
	Description string    `json:"descripcion" gorm:"type:varchar(200)"`
	UpdatedAt   time.Time `json:"fecha_actualizacion"`
}

// TableName keeps the table name independent of the Go type name
func (ConfigEntry) TableName() string {
	return "configuracion"
}

// All returns every model managed by migrations
func All() []interface{} {
	return []interface{}{&Category{}, &Product{}, &Order{}, &OrderItem{}, &User{}, &ConfigEntry{}}
}
