package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// FileName is the name of the configuration file that Loader looks for.
const FileName = ".rezip"

// Loader can be used for loading .rezip configuration.
//
// The zero value is ready for use and has no settings until Load is called.
type Loader struct {
	// Dir is the directory to start searching for the .rezip file.
	//
	// Default to the working directory.
	Dir string

	// Ceiling is the last directory to search, which stops the search from reaching the filesystem root.
	//
	// Default to empty which searches up to the root.
	Ceiling string

	cfg *ini.File
}

// Load will traverse the directory hierarchy upwards to find the first ".rezip" file available and load its contents
// into the Loader.
//
// The name of the .rezip file is returned, or empty string if none was found which is not an error.
func (l *Loader) Load(ctx context.Context) (string, error) {
	l.cfg = nil

	cur := l.Dir
	if cur == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory error: %w", err)
		}
		cur = wd
	}

	cur, err := filepath.Abs(cur)
	if err != nil {
		return "", fmt.Errorf("resolve directory error: %w", err)
	}

	ceiling := ""
	if l.Ceiling != "" {
		if ceiling, err = filepath.Abs(l.Ceiling); err != nil {
			return "", fmt.Errorf("resolve ceiling directory error: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		path := filepath.Join(cur, FileName)
		switch fi, err := os.Stat(path); {
		case err == nil && !fi.IsDir():
			if l.cfg, err = ini.Load(path); err != nil {
				l.cfg = ini.Empty()
				return path, fmt.Errorf(`load config "%s" error: %w`, path, err)
			}

			return path, nil

		case err != nil && !os.IsNotExist(err):
			return "", fmt.Errorf(`stat config "%s" error: %w`, path, err)
		}

		parent := filepath.Dir(cur)
		if parent == cur || cur == ceiling {
			return "", nil
		}
		cur = parent
	}
}

// DefaultLoader searches upwards from the working directory and is used by the command unless another Loader is given.
var DefaultLoader = &Loader{}
