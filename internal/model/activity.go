package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity is a single item on a trip itinerary.
type Activity struct {
	ID          uint                `json:"id" gorm:"primaryKey;autoIncrement"`
	TripID      uint                `json:"trip_id" gorm:"not null;index"`
	Name        string              `json:"name" gorm:"not null"`
	Description *string             `json:"description"`
	Location    *string             `json:"location"`
	Date        *time.Time          `json:"date" gorm:"type:date"`
	Time        *string             `json:"time" gorm:"size:8"` // HH:MM:SS
	Cost        decimal.NullDecimal `json:"cost" gorm:"type:decimal(12,2)"`
	CreatedAt   time.Time           `json:"created_at"`

	Trip Trip `json:"-" gorm:"foreignKey:TripID"`
}

// TableName pins the table name used by the storage layer.
func (Activity) TableName() string {
	return "activities"
}
