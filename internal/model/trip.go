package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trip is a planned journey owned by a user. No handler reads or writes trips yet.
type Trip struct {
	ID          uint                `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint                `json:"user_id" gorm:"not null;index"`
	Destination string              `json:"destination" gorm:"not null"`
	StartDate   *time.Time          `json:"start_date" gorm:"type:date"`
	EndDate     *time.Time          `json:"end_date" gorm:"type:date"`
	Description *string             `json:"description"`
	Budget      decimal.NullDecimal `json:"budget" gorm:"type:decimal(12,2)"`
	Status      string              `json:"status" gorm:"size:50;default:planned"`
	CreatedAt   time.Time           `json:"created_at"`

	User       User       `json:"-" gorm:"foreignKey:UserID"`
	Activities []Activity `json:"activities,omitempty" gorm:"foreignKey:TripID"`
}

// TableName pins the table name used by the storage layer.
func (Trip) TableName() string {
	return "trips"
}
