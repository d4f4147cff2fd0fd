package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MetadataVersion is the current version of the run-metadata format.
const MetadataVersion = 1

const metadataFile = "index-meta.json"

// RunMeta is a small JSON sidecar holding a per-run diagnostic record
// next to the index, stripped of any git-repo freshness logic, which
// has no equivalent in a plain file-digest-based incremental indexer.
type RunMeta struct {
	Version   int       `json:"version"`
	RunID     string    `json:"runId"`
	CreatedAt time.Time `json:"createdAt"`
	FileCount int       `json:"fileCount"`
	ErrCount  int       `json:"errCount"`
	Duration  string    `json:"duration"`
}

// metaPath returns the sidecar path next to an index file at indexPath.
func metaPath(indexPath string) string {
	return filepath.Join(filepath.Dir(indexPath), metadataFile)
}

// LoadRunMeta loads the sidecar next to indexPath. Returns nil without
// error if no metadata file exists, or if its version doesn't match.
func LoadRunMeta(indexPath string) (*RunMeta, error) {
	data, err := os.ReadFile(metaPath(indexPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading run metadata: %w", err)
	}

	var meta RunMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing run metadata: %w", err)
	}
	if meta.Version != MetadataVersion {
		return nil, nil
	}
	return &meta, nil
}

// Save writes m as the sidecar next to indexPath.
func (m *RunMeta) Save(indexPath string) error {
	m.Version = MetadataVersion

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run metadata: %w", err)
	}
	if err := os.WriteFile(metaPath(indexPath), data, 0644); err != nil {
		return fmt.Errorf("writing run metadata: %w", err)
	}
	return nil
}
