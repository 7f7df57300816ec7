package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core/course"
)

// FileBackend stores the session as JSON in a file readable by its owner only.
type FileBackend struct {
	Path string
}

type fileSession struct {
	User course.User `json:"user"`
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (b *FileBackend) Load() (course.User, bool, error) {
	data, err := os.ReadFile(b.Path)
	if os.IsNotExist(err) {
		return course.User{}, false, nil
	}
	if err != nil {
		return course.User{}, false, errors.Wrap(err, "reading session file")
	}
	var fs fileSession
	if err := json.Unmarshal(data, &fs); err != nil {
		return course.User{}, false, errors.Wrap(err, "decoding session file")
	}
	return fs.User, !fs.User.ID.IsZero(), nil
}

func (b *FileBackend) Save(user course.User) error {
	data, err := json.MarshalIndent(fileSession{User: user}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := os.MkdirAll(filepath.Dir(b.Path), 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	tmp := b.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return errors.Wrap(os.Rename(tmp, b.Path), "replacing session file")
}

func (b *FileBackend) Clear() error {
	if err := os.Remove(b.Path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
