package application

import (
	"os"
	"path/filepath"
	"sort"

	report "energy-report/internal/report/domain"
)

// ScanInputDir lists the regular files of dir by name. Subdirectories are skipped.
func ScanInputDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// EnsureOutputDir creates the output folder of fileName under outRoot.
// Calling it again for the same file is a no-op.
func EnsureOutputDir(outRoot, fileName string) (report.Artifacts, error) {
	artifacts := report.ArtifactsFor(outRoot, fileName)
	if err := os.MkdirAll(artifacts.Dir, 0o755); err != nil {
		return artifacts, err
	}
	return artifacts, nil
}
