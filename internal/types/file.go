package types

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrFileNotFound   = errors.New("file not found")
	ErrNotRegularFile = errors.New("not a regular file")
)

type LocalFile struct {
	Path string
	Name string
	Size int64
}

// StatLocalFile resolves path to a regular file on disk.
func StatLocalFile(path string) (LocalFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LocalFile{}, ErrFileNotFound
		}
		return LocalFile{}, err
	}

	if !fi.Mode().IsRegular() {
		return LocalFile{}, ErrNotRegularFile
	}

	return LocalFile{
		Path: path,
		Name: filepath.Base(path),
		Size: fi.Size(),
	}, nil
}
