package scenario

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/AntonStoeckl/dynamic-query-go/fixture"
)

const snapshotFileExtension = ".json"

// FileStore keeps one snapshot file per scenario in Dir.
type FileStore struct {
	Dir string
}

// Path returns <Dir>/<name>.json.
func (s FileStore) Path(name string) string {
	return filepath.Join(s.Dir, name+snapshotFileExtension)
}

// Exists reports whether the scenario's snapshot file was generated.
func (s FileStore) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && info.Mode().IsRegular()
}

func (s FileStore) Load(name string) (*fixture.Snapshot, error) {
	snapshot, err := fixture.ReadSnapshotFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Join(ErrSnapshotMissing, fmt.Errorf("%s", s.Path(name)))
	}

	return snapshot, err
}

// Save writes the snapshot atomically, a previous file stays intact if writing fails.
func (s FileStore) Save(name string, snapshot *fixture.Snapshot) error {
	return fixture.WriteSnapshotFile(s.Path(name), snapshot)
}
