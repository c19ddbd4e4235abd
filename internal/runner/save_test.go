package runner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatprobe/chatprobe/internal/sim"
)

func TestSaveResult(t *testing.T) {
	t.Run("writes an indented JSON document", func(t *testing.T) {
		dir := t.TempDir()
		result := sim.Result{
			Config:    sim.Config{SimulationID: "abc-123"},
			StartTime: time.Now(),
			EndTime:   time.Now(),
			Metrics:   sim.EvaluationMetrics{GoalAchieved: true, TotalTurns: 3},
		}

		path, err := SaveResult(dir, result)
		require.NoError(t, err)

		base := filepath.Base(path)
		assert.True(t, strings.HasPrefix(base, "simulation-abc-123-"))
		assert.True(t, strings.HasSuffix(base, ".json"))
		assert.NotContains(t, base, ":")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n  \"config\"")

		var loaded sim.Result
		require.NoError(t, json.Unmarshal(data, &loaded))
		assert.Equal(t, "abc-123", loaded.Config.SimulationID)
		assert.True(t, loaded.Metrics.GoalAchieved)
		assert.Equal(t, 3, loaded.Metrics.TotalTurns)
	})

	t.Run("creates nested results directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "results")
		_, err := SaveResult(dir, sim.Result{Config: sim.Config{SimulationID: "x"}})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("fails when the directory cannot be created", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		_, err := SaveResult(filepath.Join(blocker, "results"), sim.Result{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create results directory")
	})
}
