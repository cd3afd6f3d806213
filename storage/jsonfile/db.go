// Package jsonfile persists every store as a single pretty-printed JSON
// document under the data directory, rewritten whole on each save. Writes go
// through a temp file + rename so a failed save never corrupts the previous
// document. Single-writer semantics; see the progress service for locking.
package jsonfile

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// DB is a handle on the data directory, opened once at process start.
type DB struct {
	dir string
}

func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data dir")
	}
	return &DB{dir: dataDir}, nil
}

func (db *DB) path(name string) string {
	return filepath.Join(db.dir, name)
}

// readDoc unmarshals the named document into v. A missing file is valid empty
// state: v is left untouched and no error is returned.
func (db *DB) readDoc(name string, v interface{}) error {
	data, err := ioutil.ReadFile(db.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// writeDoc atomically replaces the named document with the serialization of v.
func (db *DB) writeDoc(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := ioutil.TempFile(db.dir, name+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), db.path(name))
}
