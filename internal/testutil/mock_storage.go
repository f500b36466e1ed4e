// mock_storage.go - In-memory artifact storage for testing
package testutil

import (
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/showscrub/backend/internal/models"
)

// ErrMockNotFound is returned by MockStorage for unknown names.
var ErrMockNotFound = errors.New("artifact not found")

// MockStorage keeps artifacts in memory. It has the method set of
// storage.Store.
type MockStorage struct {
	mu       sync.RWMutex
	files    map[string]*models.Artifact
	fileData map[string][]byte

	// SaveErr, when set, is returned by every Save call.
	SaveErr error
}

// NewMockStorage creates an empty mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		files:    make(map[string]*models.Artifact),
		fileData: make(map[string][]byte),
	}
}

func (m *MockStorage) Save(conversionID, name string, r io.Reader) (*models.Artifact, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	info := &models.Artifact{
		Name:         name,
		ConversionID: conversionID,
		Size:         int64(len(data)),
		WrittenAt:    time.Now(),
	}
	key := strings.ToLower(name)
	m.files[key] = info
	m.fileData[key] = data
	return info, nil
}

func (m *MockStorage) Get(name string) (*models.Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[strings.ToLower(name)]
	if !ok {
		return nil, ErrMockNotFound
	}
	return info, nil
}

func (m *MockStorage) List(limit int) ([]*models.Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var files []*models.Artifact
	for _, info := range m.files {
		files = append(files, info)
		if limit > 0 && len(files) >= limit {
			break
		}
	}
	return files, nil
}

func (m *MockStorage) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := m.files[key]; !ok {
		return ErrMockNotFound
	}
	delete(m.files, key)
	delete(m.fileData, key)
	return nil
}

func (m *MockStorage) GetFilePath(name string) (string, error) {
	if _, err := m.Get(name); err != nil {
		return "", err
	}
	return "/mock/output/" + name, nil
}

// Test Helper Methods

// GetFileData returns the content written under name.
func (m *MockStorage) GetFileData(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.fileData[strings.ToLower(name)]
	if !ok {
		return nil, ErrMockNotFound
	}
	return data, nil
}

// GetFileCount returns the number of stored artifacts.
func (m *MockStorage) GetFileCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
