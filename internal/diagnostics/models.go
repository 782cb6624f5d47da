package diagnostics

import (
	"io"
	"time"

	"github.com/i474232898/tccon-diagnostics/internal/tabular"
	"github.com/i474232898/tccon-diagnostics/internal/weather"
)

// Kind names the product an artifact holds.
type Kind string

const (
	KindMeteo     Kind = "meteo"
	KindRetrieval Kind = "retrieval"
	KindTracker   Kind = "tracker"
	KindFileList  Kind = "filelist"
)

// Artifact describes one file produced by the service.
type Artifact struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Site      string    `json:"site,omitempty"`
	Day       time.Time `json:"day"`
	Source    string    `json:"source,omitempty"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"createdAt"`

	// Points is the number of data rows (or listed files) behind the artifact.
	Points  int `json:"points"`
	Flagged int `json:"flagged,omitempty"`
}

// Store is the contract the artifact registry must satisfy.
type Store interface {
	Save(a Artifact)
	Latest(site string) (Artifact, error)
	Range(site string, from, to time.Time) ([]Artifact, error)
	All() []Artifact
}

// MeteoInput is everything the meteo figure draws.
type MeteoInput struct {
	Site string
	Day  time.Time
	Data *weather.MeteoDay

	// Rain added per 30 minute window, keyed by the window's opening border.
	RainBorders []time.Time
	RainAmount  []float64
	RainWidth   float64

	Wind []weather.WindVector

	// SZA is aligned with Data.Time; NaN while the sun is down.
	SZA []float64
}

// PanelSpec selects one dataset column for a figure panel.
type PanelSpec struct {
	Label  string
	Column int
	Color  string // hex, without '#'
}

// RetrievalInput is a parsed retrieval output with its timestamps.
type RetrievalInput struct {
	Source  string
	Dataset *tabular.Dataset
	Times   []time.Time
	Flagged []bool
	Panels  []PanelSpec
}

// TrackerInput is a parsed tracker log anchored on its day.
type TrackerInput struct {
	Day     time.Time
	Dataset *tabular.Dataset
	Times   []time.Time
	Panels  []PanelSpec
}

// Renderer draws the diagnostic figures.
type Renderer interface {
	Meteo(w io.Writer, in MeteoInput) error
	Retrieval(w io.Writer, in RetrievalInput) error
	Tracker(w io.Writer, in TrackerInput) error
}
