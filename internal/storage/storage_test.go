package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MBP16/SIR-Modeling/internal/experiment"
	"github.com/MBP16/SIR-Modeling/internal/numeric"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

func outcome(t *testing.T, mode numeric.Mode) *experiment.Outcome {
	t.Helper()
	p := sim.DefaultParams()
	p.Mode = mode
	p.EndTime = 1
	out, err := experiment.New(nil).Run(context.Background(), p, "euler")
	require.NoError(t, err)
	return out
}

func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	repos := make(map[string]Repository)
	for _, kind := range []string{"file", "sqlite"} {
		repo, err := Open(kind, t.TempDir())
		require.NoError(t, err, kind)
		t.Cleanup(func() { repo.Close() })
		repos[kind] = repo
	}
	return repos
}

func TestRepositorySaveLoad(t *testing.T) {
	for kind, repo := range repositories(t) {
		t.Run(kind, func(t *testing.T) {
			out := outcome(t, numeric.DecimalMode)

			id, err := repo.Save(NewMetadata(out), out.Trajectory)
			require.NoError(t, err)
			assert.NotEmpty(t, id)

			meta, err := repo.Load(id)
			require.NoError(t, err)
			assert.Equal(t, id, meta.ID)
			assert.Equal(t, "euler", meta.Runner)
			assert.Equal(t, "decimal", meta.Params.Precision)
			assert.Equal(t, uint32(28), meta.Params.DecimalDigits)
			assert.Equal(t, out.Steps, meta.Steps)
			assert.Equal(t, "horizon", meta.Reason)
			assert.Equal(t, out.Summary.PeakInfected, meta.Summary.PeakInfected)
			assert.False(t, meta.Timestamp.IsZero())

			traj, err := repo.LoadTrajectory(id)
			require.NoError(t, err)
			require.Equal(t, out.Trajectory.Len(), traj.Len())
			for k := 0; k < traj.Len(); k++ {
				assert.Equal(t, out.Trajectory.Row(k), traj.Row(k), "row %d", k)
			}
		})
	}
}

func TestRepositoryList(t *testing.T) {
	for kind, repo := range repositories(t) {
		t.Run(kind, func(t *testing.T) {
			runs, err := repo.List()
			require.NoError(t, err)
			assert.Empty(t, runs)

			out := outcome(t, numeric.FloatMode)
			base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			var ids []string
			for k := 2; k >= 0; k-- {
				meta := NewMetadata(out)
				meta.Timestamp = base.Add(time.Duration(k) * time.Minute)
				id, err := repo.Save(meta, out.Trajectory)
				require.NoError(t, err)
				ids = append([]string{id}, ids...)
			}

			runs, err = repo.List()
			require.NoError(t, err)
			require.Len(t, runs, 3)
			for k, run := range runs {
				assert.Equal(t, ids[k], run.ID)
			}
		})
	}
}

func TestRepositoryDelete(t *testing.T) {
	for kind, repo := range repositories(t) {
		t.Run(kind, func(t *testing.T) {
			out := outcome(t, numeric.FloatMode)
			id, err := repo.Save(NewMetadata(out), out.Trajectory)
			require.NoError(t, err)

			require.NoError(t, repo.Delete(id))

			_, err = repo.Load(id)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = repo.LoadTrajectory(id)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, repo.Delete(id), ErrNotFound)
		})
	}
}

func TestRepositoryMissing(t *testing.T) {
	for kind, repo := range repositories(t) {
		t.Run(kind, func(t *testing.T) {
			_, err := repo.Load("missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFileStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := Open("postgres", t.TempDir())
	assert.Error(t, err)
}
