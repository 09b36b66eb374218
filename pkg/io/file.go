package io

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	errs "github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
)

// ImportFile reads the snapshot at path, picking the encoding with
// [FormatFor].
//
// A missing file is FILE_NOT_FOUND; any other read failure is IO_ERROR.
// Decoding errors are those of [ReadJSON] and [ReadTOML], with the path
// prepended to the message.
func ImportFile(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "no such file: %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "read %s", path)
	}
	g, err := Unmarshal(data, FormatFor(path))
	if err != nil {
		return nil, withPath(err, path)
	}
	return g, nil
}

// ExportFile writes g to path, picking the encoding with [FormatFor].
//
// The snapshot is written to a temporary file in the same directory and then
// renamed over path, so a failed save never leaves a truncated file behind.
func ExportFile(g *graph.Graph, path string) error {
	data, err := Marshal(g, FormatFor(path))
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

func withPath(err error, path string) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return &errs.Error{Code: e.Code, Message: path + ": " + e.Message, Cause: e.Cause}
	}
	return errs.Wrap(errs.ErrCodeCorruptData, err, "%s", path)
}
