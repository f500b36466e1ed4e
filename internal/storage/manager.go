package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/showscrub/backend/internal/models"
	"github.com/showscrub/backend/internal/transform"
)

// ErrNotFound is returned for artifact names the store does not hold.
var ErrNotFound = errors.New("artifact not found")

// Store defines the interface for converted output storage.
type Store interface {
	Save(conversionID, name string, r io.Reader) (*models.Artifact, error)
	Get(name string) (*models.Artifact, error)
	List(limit int) ([]*models.Artifact, error)
	Delete(name string) error
	GetFilePath(name string) (string, error)
}

// LocalStore implements Store using the local filesystem. File names are kept
// unique ignoring case, including against files already in the directory.
type LocalStore struct {
	mu        sync.RWMutex
	outputDir string
	files     map[string]*models.Artifact // keyed by lowercase name
	namer     *transform.Namer
}

// NewLocalStore creates a new LocalStore.
func NewLocalStore(outputDir string) (*LocalStore, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}
	taken := make([]string, 0, len(entries))
	for _, e := range entries {
		taken = append(taken, e.Name())
	}

	return &LocalStore{
		outputDir: outputDir,
		files:     make(map[string]*models.Artifact),
		namer:     transform.NewNamer(taken...),
	}, nil
}

// Save writes r under name, or under a suffixed variant of it when the name
// is already taken.
func (s *LocalStore) Save(conversionID, name string, r io.Reader) (*models.Artifact, error) {
	base := transform.SanitizeName(filepath.Base(name), transform.DefaultArtifactName)

	s.mu.Lock()
	unique := s.namer.Unique(base)
	s.mu.Unlock()

	path := filepath.Join(s.outputDir, unique)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	info := &models.Artifact{
		Name:         unique,
		ConversionID: conversionID,
		Size:         size,
		WrittenAt:    time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[strings.ToLower(unique)] = info

	return info, nil
}

// Get retrieves artifact metadata by name.
func (s *LocalStore) Get(name string) (*models.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.files[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return info, nil
}

// List returns the most recent artifacts.
func (s *LocalStore) List(limit int) ([]*models.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.Artifact, 0, len(s.files))
	for _, info := range s.files {
		list = append(list, info)
	}

	// Sort by WrittenAt desc
	sort.Slice(list, func(i, j int) bool {
		return list[i].WrittenAt.After(list[j].WrittenAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

// Delete removes an artifact from storage. Its name stays reserved.
func (s *LocalStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(name)
	info, ok := s.files[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	path := filepath.Join(s.outputDir, info.Name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}

	delete(s.files, key)
	return nil
}

// GetFilePath returns the absolute path to an artifact.
func (s *LocalStore) GetFilePath(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.files[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return filepath.Join(s.outputDir, info.Name), nil
}
