package models

import "time"

// Entity is a business record in the suspect/prospect/client funnel.
// The engine only reads the funnel status; funnel transitions happen
// elsewhere in the portal.
type Entity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `gorm:"index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
