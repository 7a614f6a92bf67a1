package models

import "time"

// CheckIn is a user's daily self-assessment. CheckInDay holds the calendar day
// in the user's timezone and is unique per user.
type CheckIn struct {
	ID                 string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;index:ux_check_ins_user_day,unique,priority:1;index:idx_check_ins_user_at,priority:1" json:"user_id"`
	CheckInDay         string    `gorm:"type:char(10);not null;index:ux_check_ins_user_day,unique,priority:2" json:"check_in_day"`
	EnergyLevel        int       `gorm:"not null" json:"energy_level"`
	SleepQuality       int       `gorm:"not null" json:"sleep_quality"`
	MoodLevel          int       `gorm:"not null" json:"mood_level"`
	LebensenergieScore float64   `gorm:"type:decimal(4,1);not null" json:"lebensenergie_score"`
	EnergyGivers       []string  `gorm:"type:json;serializer:json" json:"energy_givers"`
	EnergyDrainers     []string  `gorm:"type:json;serializer:json" json:"energy_drainers"`
	Notes              string    `gorm:"type:text" json:"notes,omitempty"`
	CheckedInAt        time.Time `gorm:"type:timestamp;not null;index:idx_check_ins_user_at,priority:2" json:"checked_in_at"`
}
