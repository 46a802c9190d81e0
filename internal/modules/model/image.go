package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Asset carries the object-storage metadata of an uploaded image.
type Asset struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	ETag   string `json:"etag"`
	MIME   string `json:"mime"`
	SizeB  int64  `json:"size"`
}

// Image is the one entity whose primary key originates outside the local
// system: ID is the object-storage key assigned at upload time.
type Image struct {
	ID        string    `gorm:"column:image_id;type:text;primaryKey" json:"image_id"`
	URL       string    `gorm:"column:image_url;type:text;not null" json:"image_url"`
	IsMain    bool      `gorm:"column:is_main;not null;default:false" json:"is_main"`
	ProjectID uuid.UUID `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`

	Asset datatypes.JSONType[Asset] `gorm:"type:jsonb" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Image) TableName() string { return "images" }
