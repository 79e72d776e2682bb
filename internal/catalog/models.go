package catalog

import (
	"time"

	"bdindex/internal/timecode"
)

// Scan is one recorded pass over a release root.
type Scan struct {
	ID        string
	Root      string
	CreatedAt time.Time
	Volumes   []string
	Items     []Item
	Failures  []Failure
}

// Item is one play item found during a scan.
type Item struct {
	Volume       string        `json:"volume"`
	Playlist     string        `json:"playlist"`
	PlaylistPath string        `json:"playlist_path"`
	Index        int           `json:"index"`
	M2TSPath     string        `json:"m2ts_path"`
	FrameRate    timecode.Rate `json:"frame_rate"`
	Chapters     []int64       `json:"chapters"`
}

// Failure is a playlist that could not be parsed during a scan.
type Failure struct {
	Volume       string `json:"volume"`
	PlaylistPath string `json:"playlist_path"`
	Error        string `json:"error"`
}

// Summary is the row shown when listing scans.
type Summary struct {
	ID           string    `json:"id"`
	Root         string    `json:"root"`
	CreatedAt    time.Time `json:"created_at"`
	VolumeCount  int       `json:"volumes"`
	ItemCount    int       `json:"items"`
	FailureCount int       `json:"failures"`
}
