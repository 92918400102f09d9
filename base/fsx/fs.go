// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fsx provides helpers for working with [fs.FS] filesystems.
package fsx

import (
	"io/fs"
	"os"
	"path/filepath"

	"cogentcore.org/xyzsync/base/errors"
)

// DirFS returns the directory part of the given file path as an
// [os.DirFS], and the file name, so that the file can be read
// through the [fs.FS] interface.
func DirFS(fpath string) (fs.FS, string, error) {
	fabs, err := filepath.Abs(fpath)
	if err != nil {
		return nil, "", err
	}
	dir, fname := filepath.Split(fabs)
	return os.DirFS(dir), fname, nil
}

// FileExistsFS returns whether the given regular file exists,
// and an error only if the file could not be accessed.
func FileExistsFS(fsys fs.FS, name string) (bool, error) {
	info, err := fs.Stat(fsys, name)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
