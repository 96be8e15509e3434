package types

import "time"

// Favorite is a pinned launch target. Position orders the dock; lower comes
// first.
type Favorite struct {
	ID         int64     `json:"id"`
	TargetPath string    `json:"targetPath"`
	Label      string    `json:"label"`
	Position   int       `json:"position"`
	AddedAt    time.Time `json:"addedAt"`
}
