package models

import "time"

// AppSettings is the single global settings document, keyed by a fixed id.
type AppSettings struct {
	ID               string    `bson:"_id" json:"id"`
	AdminDevicePhone string    `bson:"adminDevicePhone,omitempty" json:"adminDevicePhone,omitempty"`
	UpdatedBy        string    `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AppSettingsID is the fixed key of the global settings document.
const AppSettingsID = "global"

// UpdateSettingsRequest defines the structure for settings update requests
type UpdateSettingsRequest struct {
	AdminDevicePhone string `json:"adminDevicePhone,omitempty"`
}
