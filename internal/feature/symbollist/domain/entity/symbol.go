// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol is one entry of the ingest catalog.
// Code is the provider key (e.g. "TCS.NS"); the CSV stem is derived from it at ingest time.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:32;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Exchange  string    `gorm:"size:100;not null;default:''"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
