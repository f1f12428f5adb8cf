package models

import "gorm.io/gorm"

const VoiceCommandStatusProcessed = "Processed"

// VoiceCommand is an append-only log entry: one recognized command, the
// response produced for it and how long recognition took in seconds.
// UserID is nullable so commands issued before login can still be kept.
type VoiceCommand struct {
	gorm.Model
	UserID         *uint   `json:"userId"`
	CommandText    string  `json:"commandText" gorm:"type:text;not null"`
	ResponseText   string  `json:"responseText" gorm:"type:text;not null"`
	Status         string  `json:"status" gorm:"not null;default:'Processed'"`
	ProcessingTime float64 `json:"processingTime"`
}
