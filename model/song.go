package model

import (
	"time"

	"github.com/google/uuid"
)

// Song represents an uploaded audio file and its metadata.
// Songs are immutable once created.
type Song struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Artist    string    `json:"artist" bson:"artist"`
	Genre     string    `json:"genre" bson:"genre"`
	File      string    `json:"file" bson:"file"`         // Public URL of the streamable audio
	Image     string    `json:"image" bson:"image"`       // Cover image URL, may be empty
	Duration  float64   `json:"duration" bson:"duration"` // Seconds, 0 when unknown
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// NewID 生成新的记录ID
func NewID() string {
	return uuid.NewString()
}
