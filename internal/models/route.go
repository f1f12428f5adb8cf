package models

import "gorm.io/gorm"

// Route is a fixed connection between two cities. Fare is a flat per-seat
// amount, duration is in minutes and distance in kilometres.
type Route struct {
	gorm.Model
	RouteName   string  `json:"routeName" gorm:"column:route_name;not null"`
	Source      string  `json:"source" gorm:"not null"`
	Destination string  `json:"destination" gorm:"not null"`
	Distance    float64 `json:"distance" gorm:"not null"`
	Duration    int     `json:"duration" gorm:"not null"`
	Fare        float64 `json:"fare" gorm:"not null"`
}
