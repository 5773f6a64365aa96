package store

import "time"

// Profile holds one user's birth facts. Immutable after submission; replaced
// wholesale when a new profile is submitted.
type Profile struct {
	ID            string    `json:"id"` // UUID
	Name          string    `json:"name"`
	BirthDate     string    `json:"birth_date"`
	BirthTime     string    `json:"birth_time"`
	BirthLocation string    `json:"birth_location"`
	CreatedAt     time.Time `json:"created_at"`
}

// Message is one turn in the transcript. Append-only, never reordered.
type Message struct {
	ID        string    `json:"id"`   // UUID
	Role      string    `json:"role"` // "user" or "model"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	ReadingKindDossier = "dossier"
	ReadingKindMoon    = "moon"
)

// Reading is a generated payload (dossier or moon snapshot) stored as its raw
// JSON, keyed to the profile it was generated for.
type Reading struct {
	ID        int64     `json:"id"`
	ProfileID string    `json:"profile_id"`
	Kind      string    `json:"kind"`
	Payload   string    `json:"-"` // raw JSON, decoded by the caller
	CreatedAt time.Time `json:"created_at"`
}
