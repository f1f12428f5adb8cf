package models

import "gorm.io/gorm"

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "Available"
	VehicleStatusMaintenance VehicleStatus = "Maintenance"
)

type Vehicle struct {
	gorm.Model
	VehicleNumber string `json:"vehicleNumber" gorm:"column:vehicle_number;unique;not null"`
	VehicleType   string `json:"vehicleType" gorm:"column:vehicle_type;not null"`
	Capacity      int    `json:"capacity" gorm:"not null"`
	Status        string `json:"status" gorm:"not null;default:'Available'"`
}
