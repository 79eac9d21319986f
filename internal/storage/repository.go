package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/MBP16/SIR-Modeling/internal/experiment"
	"github.com/MBP16/SIR-Modeling/internal/export"
	"github.com/MBP16/SIR-Modeling/internal/metrics"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

var ErrNotFound = errors.New("storage: run not found")

type RunMetadata struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Runner    string            `json:"runner"`
	Params    export.ParamsData `json:"params"`
	Reason    string            `json:"reason"`
	Steps     int               `json:"steps"`
	ElapsedMS float64           `json:"elapsed_ms"`
	Summary   metrics.Summary   `json:"summary"`
}

// NewMetadata describes a finished run. ID and Timestamp are assigned on
// Save.
func NewMetadata(out *experiment.Outcome) RunMetadata {
	return RunMetadata{
		Runner:    out.Runner,
		Params:    export.NewParamsData(out.Params),
		Reason:    out.Reason.String(),
		Steps:     out.Steps,
		ElapsedMS: float64(out.Elapsed.Microseconds()) / 1000,
		Summary:   out.Summary,
	}
}

// Repository persists runs: their metadata and the full recorded table.
type Repository interface {
	Init() error
	Save(meta RunMetadata, traj sim.Trajectory) (string, error)
	List() ([]RunMetadata, error)
	Load(id string) (*RunMetadata, error)
	LoadTrajectory(id string) (sim.Trajectory, error)
	Delete(id string) error
	Close() error
}

// Open returns the repository of the given kind rooted at dir: "file"
// for one directory per run, "sqlite" for a single runs.db.
func Open(kind, dir string) (Repository, error) {
	var repo Repository
	switch kind {
	case "", "file":
		repo = New(dir)
	case "sqlite":
		s, err := NewSQLite(filepath.Join(dir, "runs.db"))
		if err != nil {
			return nil, err
		}
		repo = s
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
	if err := repo.Init(); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

func newRunID() string {
	return uuid.NewString()
}

func stamp(meta RunMetadata) RunMetadata {
	if meta.ID == "" {
		meta.ID = newRunID()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	return meta
}
