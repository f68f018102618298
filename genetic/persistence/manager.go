package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrRunNotFound is returned when no record exists for a run ID
var ErrRunNotFound = errors.New("run not found")

// Manager handles save/load of YAML run reports
type Manager struct {
	basePath string
}

// NewManager creates a manager with the given base directory
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

// FilePath returns the report path for a run
func (m *Manager) FilePath(runID string) string {
	return filepath.Join(m.basePath, runID+".yaml")
}

// Exists checks if a report file exists
func (m *Manager) Exists(runID string) bool {
	_, err := os.Stat(m.FilePath(runID))
	return err == nil
}

// Save writes the run report to disk and returns its path
func (m *Manager) Save(dto RunDTO) (string, error) {
	if dto.ID == "" {
		return "", errors.New("run report without id")
	}
	if err := os.MkdirAll(m.basePath, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	data, err := yaml.Marshal(dto)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	path := m.FilePath(dto.ID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a run report from disk
func (m *Manager) Load(runID string) (RunDTO, error) {
	var dto RunDTO

	data, err := os.ReadFile(m.FilePath(runID))
	if errors.Is(err, os.ErrNotExist) {
		return dto, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return dto, err
	}

	if err := yaml.Unmarshal(data, &dto); err != nil {
		return dto, fmt.Errorf("decode report %s: %w", runID, err)
	}

	return dto, nil
}
