// Package walk implements the directory driver named as an external
// collaborator in item J: recursive candidate discovery for the CLI's
// --recursive flag, honoring the hidden-file and existing-container
// filtering rules from §6.3 and scenario 5.
package walk

import (
	"os"
	"path/filepath"
	"strings"
)

const containerExt = ".crypt"

// Mode selects which filtering rules apply.
type Mode int

const (
	// ModeEncrypt skips hidden entries and files already ending in .crypt.
	ModeEncrypt Mode = iota
	// ModeDecrypt visits only files ending in .crypt.
	ModeDecrypt
)

// Candidates walks root (recursively if recursive is true; otherwise it
// only considers root itself, or root's direct children if root is a
// directory) and returns the file paths eligible for the given mode.
func Candidates(root string, recursive bool, mode Mode) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if eligible(filepath.Base(root), mode) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var out []string
	if recursive {
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && isHidden(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if eligible(d.Name(), mode) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if eligible(e.Name(), mode) {
			out = append(out, filepath.Join(root, e.Name()))
		}
	}
	return out, nil
}

func eligible(name string, mode Mode) bool {
	isContainer := strings.HasSuffix(name, containerExt)
	switch mode {
	case ModeDecrypt:
		return isContainer
	default: // ModeEncrypt
		if isHidden(name) || isContainer {
			return false
		}
		return true
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// InferMode returns ModeDecrypt for a path ending in .crypt and
// ModeEncrypt otherwise, matching §6.3's default-by-extension rule.
func InferMode(path string) Mode {
	if strings.HasSuffix(path, containerExt) {
		return ModeDecrypt
	}
	return ModeEncrypt
}
