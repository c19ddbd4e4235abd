package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chatprobe/chatprobe/internal/sim"
)

const (
	dirPermission  = 0755
	filePermission = 0644
)

// SaveResult writes one indented JSON document for the run into resultsDir,
// keyed by simulation id and timestamp. Returns the written path.
func SaveResult(resultsDir string, result sim.Result) (string, error) {
	if err := os.MkdirAll(resultsDir, dirPermission); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	// Colons are not filename-safe everywhere.
	timestamp := strings.ReplaceAll(time.Now().Format(time.RFC3339), ":", "-")
	filename := fmt.Sprintf("simulation-%s-%s.json", result.Config.SimulationID, timestamp)
	path := filepath.Join(resultsDir, filename)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.WriteFile(path, data, filePermission); err != nil {
		return "", fmt.Errorf("failed to write result file: %w", err)
	}

	log.Debug().Str("path", path).Msg("Saved simulation result")
	return path, nil
}
