// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/marquee/internal/models"
)

// MockCatalog is a test double for [services.Catalog] keyed by normalized title and id.
type MockCatalog struct {
	mu sync.Mutex

	Movies    map[string]*models.Movie // Keyed by lowercase title
	ByID      map[string]*models.Movie
	Errors    map[string]error // Keyed by lowercase title or id
	GenreList []models.Genre
	Searched  []string
	DetailIDs []string
}

func NewMockCatalog(movies ...models.Movie) *MockCatalog {
	m := &MockCatalog{
		Movies: map[string]*models.Movie{},
		ByID:   map[string]*models.Movie{},
		Errors: map[string]error{},
	}
	for _, movie := range movies {
		m.Movies[strings.ToLower(movie.Title)] = &movie
		m.ByID[movie.ID] = &movie
	}
	return m
}

func (m *MockCatalog) SearchMovie(ctx context.Context, title, language string) (*models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(title)
	m.Searched = append(m.Searched, title)
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	return m.Movies[key], nil
}

func (m *MockCatalog) MovieDetails(ctx context.Context, id, language string) (*models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DetailIDs = append(m.DetailIDs, id)
	if err, ok := m.Errors[id]; ok {
		return nil, err
	}
	return m.ByID[id], nil
}

func (m *MockCatalog) Suggestions(ctx context.Context, query, language string) ([]models.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Suggestion{}
	for _, movie := range m.ByID {
		if strings.Contains(strings.ToLower(movie.Title), strings.ToLower(query)) {
			out = append(out, models.Suggestion{ID: movie.ID, Title: movie.Title, Year: movie.Year()})
		}
	}
	return out, nil
}

func (m *MockCatalog) Genres(ctx context.Context, language string) ([]models.Genre, error) {
	return m.GenreList, nil
}

func (m *MockCatalog) Languages(ctx context.Context) ([]models.Language, error) {
	return []models.Language{{ISO6391: "en", EnglishName: "English", Name: "English"}}, nil
}

// MockBackend is a test double for [services.Backend] that records every call.
type MockBackend struct {
	mu sync.Mutex

	Err      error
	Saved    []models.Movie
	Batches  []models.SaveBatch
	Deleted  []string
	Reorders []models.ReorderRequest
}

func (m *MockBackend) respond(msg string) (*models.BackendResponse, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.BackendResponse{Status: http.StatusOK, Success: true, Message: msg}, nil
}

func (m *MockBackend) SaveMovie(ctx context.Context, movie models.Movie) (*models.BackendResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, movie)
	return m.respond("saved " + movie.ID)
}

func (m *MockBackend) SaveAll(ctx context.Context, batch models.SaveBatch) (*models.BackendResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches = append(m.Batches, batch)
	return m.respond("saved batch")
}

func (m *MockBackend) DeleteMovie(ctx context.Context, id string) (*models.BackendResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, id)
	return m.respond("deleted " + id)
}

func (m *MockBackend) UpdateOrder(ctx context.Context, req models.ReorderRequest) (*models.BackendResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reorders = append(m.Reorders, req)
	return m.respond("reordered")
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
