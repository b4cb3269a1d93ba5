package classfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"classlint/internal/jvmfmt"
)

var (
	ErrNotRegular = errors.New("classfile: not a regular file")
	ErrTooLarge   = errors.New("classfile: file exceeds size cap")
)

// Canonical returns the absolute, symlink-free form of path.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", jvmfmt.Errorf(jvmfmt.KindInvalidPath, err, "%s", path)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", jvmfmt.Errorf(jvmfmt.KindInvalidPath, err, "%s", path)
	}
	return canon, nil
}

// ReadFile reads a class file from disk, refusing anything that is not a
// regular file or is larger than the configured cap.
func ReadFile(path string, opts jvmfmt.Options) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, jvmfmt.Errorf(jvmfmt.KindInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, jvmfmt.Errorf(jvmfmt.KindParseError, err, "stat %s", path)
	}
	if !info.Mode().IsRegular() {
		return nil, jvmfmt.Errorf(jvmfmt.KindInvalidPath, ErrNotRegular, "%s", path)
	}
	limit := opts.EffectiveMaxBytes()
	if info.Size() > limit {
		return nil, jvmfmt.Errorf(jvmfmt.KindParseError, ErrTooLarge,
			"%s is %d bytes, cap is %d", path, info.Size(), limit)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return nil, jvmfmt.Errorf(jvmfmt.KindParseError, err, "read %s", path)
	}
	return data, nil
}

// Open canonicalizes path, reads it and decodes it.
func Open(path string, opts jvmfmt.Options) (*ClassFile, error) {
	canon, err := Canonical(path)
	if err != nil {
		return nil, err
	}
	data, err := ReadFile(canon, opts)
	if err != nil {
		return nil, err
	}
	cf, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cf, nil
}
