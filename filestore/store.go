// Package filestore keeps favorites in memory and mirrors every change to a
// JSON file on disk.
package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"moviefav/errs"
	"moviefav/movie"
	"moviefav/pkg/logger"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	DefaultDir      = "data"
	DefaultFileName = "favorites.json"
)

var ErrSaveFailed = errs.Errorf(errs.EINTERNAL, "Failed to save favorites to file")

type Options struct {
	Dir      string
	FileName string
	Logger   *zap.SugaredLogger
}

// Store implements movie.FavoriteRepository on top of a flat JSON file.
type Store struct {
	dir    string
	path   string
	logger *zap.SugaredLogger

	mu        sync.RWMutex
	favorites []movie.Favorite
}

// Open creates the data directory when missing and loads the favorites file.
// A missing file is created empty; an unreadable or malformed file is logged
// and treated as empty.
func Open(opts Options) (*Store, error) {
	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.FileName == "" {
		opts.FileName = DefaultFileName
	}
	if opts.Logger == nil {
		opts.Logger = logger.NOOPLogger
	}

	s := &Store{
		dir:       opts.Dir,
		path:      filepath.Join(opts.Dir, opts.FileName),
		logger:    opts.Logger,
		favorites: []movie.Favorite{},
	}

	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	s.load()

	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) ensureDir() error {
	if _, err := os.Stat(s.dir); err == nil {
		return nil
	}
	s.logger.Infow("creating data directory", "dir", s.dir)
	return os.MkdirAll(s.dir, 0o755)
}

func (s *Store) load() {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("favorites file not found, initializing empty list")
		if err := s.save(nil); err != nil {
			s.logger.Errorw("error loading favorites", "error", err)
		}
		return
	}
	if err != nil {
		s.logger.Errorw("error loading favorites", "error", err)
		return
	}

	favorites, err := decode(content)
	if err != nil {
		s.logger.Errorw("error loading favorites", "error", err)
		return
	}
	if favorites == nil {
		s.logger.Warn("invalid favorites file format, initializing empty list")
		return
	}

	s.favorites = favorites
	s.logger.Infow("loaded favorites from file", "count", len(favorites))
}

// decode parses the file content. It returns nil, nil when the document is
// valid JSON but not an array. Entries with missing or mistyped fields are
// dropped; a numeric year is kept as its decimal string.
func decode(content []byte) ([]movie.Favorite, error) {
	var doc interface{}
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	entries, ok := doc.([]interface{})
	if !ok {
		return nil, nil
	}

	favorites := make([]movie.Favorite, 0, len(entries))
	for _, entry := range entries {
		if f, ok := toFavorite(entry); ok {
			favorites = append(favorites, f)
		}
	}
	return favorites, nil
}

func toFavorite(entry interface{}) (movie.Favorite, bool) {
	obj, ok := entry.(map[string]interface{})
	if !ok {
		return movie.Favorite{}, false
	}

	title, ok1 := obj["title"].(string)
	imdbID, ok2 := obj["imdbID"].(string)
	poster, ok3 := obj["poster"].(string)
	if !ok1 || !ok2 || !ok3 {
		return movie.Favorite{}, false
	}

	var year string
	switch v := obj["year"].(type) {
	case string:
		year = v
	case float64:
		year = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return movie.Favorite{}, false
	}

	return movie.Favorite{Title: title, ImdbID: imdbID, Year: year, Poster: poster}, true
}

// save writes favorites through a temp file and rename so a crash never
// leaves a truncated file behind.
func (s *Store) save(favorites []movie.Favorite) error {
	if favorites == nil {
		favorites = []movie.Favorite{}
	}
	if err := s.ensureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(favorites, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".favorites-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return err
	}

	s.logger.Debugw("saved favorites to file", "count", len(favorites))
	return nil
}

func (s *Store) indexOf(imdbID string) int {
	for i, f := range s.favorites {
		if movie.SameID(f.ImdbID, imdbID) {
			return i
		}
	}
	return -1
}

func (s *Store) FindAll(_ context.Context) ([]movie.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]movie.Favorite, len(s.favorites))
	copy(out, s.favorites)
	return out, nil
}

func (s *Store) Exists(_ context.Context, imdbID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.indexOf(imdbID) >= 0, nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.favorites), nil
}

// Add appends f and persists the list. The in-memory list is left unchanged
// when the file cannot be written.
func (s *Store) Add(_ context.Context, f movie.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(f.ImdbID) >= 0 {
		return movie.ErrAlreadyExists(f.ImdbID)
	}

	next := make([]movie.Favorite, len(s.favorites), len(s.favorites)+1)
	copy(next, s.favorites)
	next = append(next, f)

	if err := s.save(next); err != nil {
		s.logger.Errorw("error saving favorites", "error", err)
		return ErrSaveFailed
	}
	s.favorites = next
	return nil
}

// Remove deletes every favorite matching imdbID and reports whether anything
// was removed. The file is only rewritten when the list changed.
func (s *Store) Remove(_ context.Context, imdbID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]movie.Favorite, 0, len(s.favorites))
	for _, f := range s.favorites {
		if !movie.SameID(f.ImdbID, imdbID) {
			next = append(next, f)
		}
	}
	if len(next) == len(s.favorites) {
		return false, nil
	}

	if err := s.save(next); err != nil {
		s.logger.Errorw("error saving favorites", "error", err)
		return false, ErrSaveFailed
	}
	s.favorites = next
	return true, nil
}

func (s *Store) Paginate(_ context.Context, page, pageSize int) (movie.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end := movie.Window(page, pageSize, len(s.favorites))
	items := make([]movie.Favorite, end-start)
	copy(items, s.favorites[start:end])

	return movie.Page{Items: items, Total: len(s.favorites)}, nil
}
