package models

import (
	"time"
)

const (
	TypeLost  = "LOST"
	TypeFound = "FOUND"

	StatusOpen    = "OPEN"
	StatusClaimed = "CLAIMED"
)

// Item is a single lost-or-found report. Rows are append-only; the only
// mutation ever applied is the OPEN -> CLAIMED status transition.
type Item struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Type              string    `gorm:"type:varchar(10);not null" json:"type"`
	ItemName          string    `gorm:"type:varchar(255);not null" json:"item_name"`
	Location          string    `gorm:"type:varchar(255);not null" json:"location"`
	DateFoundLost     string    `gorm:"type:date;not null" json:"date_found_lost"`
	TimeFoundLost     string    `gorm:"type:time;not null" json:"time_found_lost"`
	ContactInfo       string    `gorm:"type:varchar(255);not null" json:"contact_info"`
	UniqueIdentifiers string    `gorm:"type:text" json:"unique_identifiers"`
	ImageURL          string    `gorm:"type:varchar(255)" json:"image_url"`
	Status            string    `gorm:"type:varchar(10);default:OPEN" json:"status"`
	Latitude          *float64  `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude         *float64  `gorm:"type:decimal(11,8)" json:"longitude"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}
