// Package preflight makes sure the directories userdata writes to exist
// before the logger or the SQLite driver opens files in them.
package preflight

import (
	"errors"
	"fmt"
	"os"

	"github.com/thalib/userdata/cmd/userdata/internal/constants"
)

// DirCheck is a directory that must exist.
type DirCheck struct {
	Path string
	// FailFatal makes a failure to create Path abort Run.
	FailFatal bool
}

// Result is the outcome of one DirCheck.
type Result struct {
	Path    string
	Existed bool
	Created bool
	Err     error
}

// Run creates every missing directory. It checks all entries and returns the
// results together with the joined errors of the fatal ones.
func Run(checks []DirCheck) ([]Result, error) {
	results := make([]Result, 0, len(checks))
	var fatal []error

	for _, check := range checks {
		if check.Path == "" {
			continue
		}

		result := ensureDir(check.Path)
		if result.Err != nil && check.FailFatal {
			fatal = append(fatal, result.Err)
		}
		results = append(results, result)
	}

	return results, errors.Join(fatal...)
}

func ensureDir(path string) Result {
	result := Result{Path: path}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		result.Existed = true
	case err == nil:
		result.Err = fmt.Errorf("path exists but is not a directory: %s", path)
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(path, constants.DirPermissions); err != nil {
			result.Err = fmt.Errorf("failed to create directory %s: %w", path, err)
		} else {
			result.Created = true
		}
	default:
		result.Err = fmt.Errorf("failed to check path %s: %w", path, err)
	}

	return result
}
