// Package jsonfile stores whole JSON documents on disk. Writes go through a
// temporary file in the target directory followed by a rename, so readers see
// either the previous or the new document and never a partial one.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const indent = "  "

func ReadRaw(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading file=%s with error=%w", path, err)
	}
	return data, nil
}

func Read(path string, v any) error {
	data, err := ReadRaw(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed decoding file=%s with error=%w", path, err)
	}
	return nil
}

func WriteRaw(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed creating dir=%s with error=%w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed creating temp file in dir=%s with error=%w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed writing temp file=%s with error=%w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed syncing temp file=%s with error=%w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed closing temp file=%s with error=%w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed chmod temp file=%s with error=%w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed renaming file=%s to %s with error=%w", tmpName, path, err)
	}
	return nil
}

func Write(path string, v any) error {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return fmt.Errorf("failed encoding file=%s with error=%w", path, err)
	}
	return WriteRaw(path, data)
}

// EnsureFile writes v to path when nothing exists there yet and reports
// whether it did.
func EnsureFile(path string, v any) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed stat file=%s with error=%w", path, err)
	}
	if err := Write(path, v); err != nil {
		return false, err
	}
	return true, nil
}
