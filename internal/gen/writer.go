package gen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm    = 0o755
	filePerm   = 0o644
	scriptPerm = 0o755
)

// rename is os.Rename; tests swap it to fail part way through a commit.
var rename = os.Rename

// replacement is one artifact staged for commit.
type replacement struct {
	filename string
	temp     string
	target   string
	// backup holds the previous target while the commit is in progress.
	backup string
}

// WriteFiles writes all generated files to the output directory, creating
// it if needed. Every file is first written to a temporary file in the
// directory. The targets are then replaced one by one, each previous
// target kept aside; if any replacement fails, the ones already made are
// rolled back, so the directory holds either all new artifacts or the
// previous ones.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		target := filepath.Join(outputDir, file.Filename)
		if info, err := os.Lstat(target); err == nil && info.IsDir() {
			return fmt.Errorf("replacing file %s: %s is a directory", file.Filename, target)
		}
	}

	reps := make([]replacement, 0, len(files))

	for _, file := range files {
		name, err := writeTemp(outputDir, file)
		if err != nil {
			removeTemps(reps)
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		reps = append(reps, replacement{
			filename: file.Filename,
			temp:     name,
			target:   filepath.Join(outputDir, file.Filename),
		})
	}

	if failed, err := commit(reps); err != nil {
		return fmt.Errorf("replacing file %s: %w", reps[failed].filename, err)
	}

	return nil
}

// commit moves every temporary file over its target. On failure it
// restores the previous targets and returns the index that failed.
func commit(reps []replacement) (int, error) {
	for i := range reps {
		r := &reps[i]

		if _, err := os.Lstat(r.target); err == nil {
			if err := rename(r.target, r.temp+".old"); err != nil {
				rollback(reps[:i])
				removeTemps(reps)

				return i, err
			}

			r.backup = r.temp + ".old"
		}

		if err := rename(r.temp, r.target); err != nil {
			rollback(reps[:i+1])
			removeTemps(reps)

			return i, err
		}
	}

	for _, r := range reps {
		if r.backup != "" {
			_ = os.Remove(r.backup)
		}
	}

	return 0, nil
}

// rollback puts the previous targets of reps back in place, newest first.
func rollback(reps []replacement) {
	for i := len(reps) - 1; i >= 0; i-- {
		r := reps[i]

		if r.backup != "" {
			_ = os.Rename(r.backup, r.target)
			continue
		}

		// The target did not exist before; drop the new one unless its
		// rename never happened.
		if _, err := os.Lstat(r.temp); err != nil {
			_ = os.Remove(r.target)
		}
	}
}

func removeTemps(reps []replacement) {
	for _, r := range reps {
		_ = os.Remove(r.temp)
	}
}

func writeTemp(dir string, file GeneratedFile) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(file.Filename)+".*.tmp")
	if err != nil {
		return "", err
	}

	perm := os.FileMode(filePerm)
	if file.Kind == KindBuildScript {
		perm = scriptPerm
	}

	_, werr := tmp.Write(file.Content)
	cerr := tmp.Close()

	if err := errors.Join(werr, cerr, os.Chmod(tmp.Name(), perm)); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}
