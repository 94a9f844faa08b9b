package models

import "time"

// RegistryVersionID is the id of the single version document.
const RegistryVersionID = 1

// RegistryVersion records when the registry was last loaded successfully.
type RegistryVersion struct {
	ID        int       `json:"-" bson:"_id"`
	Version   string    `json:"version" bson:"version"`
	Mode      string    `json:"mode" bson:"mode"`
	Records   int       `json:"records" bson:"records"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// VersionDateLayout formats RegistryVersion.Version.
const VersionDateLayout = "2006-01-02"
