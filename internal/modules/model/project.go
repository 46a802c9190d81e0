package model

import (
	"time"

	"github.com/google/uuid"
)

// Date is the (year, month) a project was completed. Embedded into the
// projects row, no identity of its own.
type Date struct {
	Year  int `gorm:"column:year;not null" json:"year"`
	Month int `gorm:"column:month;not null" json:"month"`
}

// Address is the project site address, embedded into the projects row.
type Address struct {
	City   string `gorm:"column:city;type:varchar(18);not null" json:"city"`
	Street string `gorm:"column:street;type:varchar(40);not null" json:"street"`
}

type Project struct {
	ID           uuid.UUID `gorm:"column:project_id;type:uuid;primaryKey" json:"project_id"`
	Name         string    `gorm:"column:name;type:varchar(50);not null" json:"name"`
	BuildingType string    `gorm:"column:building_type;type:varchar(18);not null" json:"building_type"`
	// Area in square meters.
	Area        float64 `gorm:"column:area;type:numeric(8,2);not null" json:"area"`
	Date        Date    `gorm:"embedded" json:"date"`
	Address     Address `gorm:"embedded" json:"address"`
	Description string  `gorm:"column:description;type:varchar(500)" json:"description,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Project <-> Image; removing a project removes its images.
	Images []Image `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"images"`
}

func (Project) TableName() string { return "projects" }
