// Package local provides a document source backed by a directory tree.
//
// Source ids are slash-separated paths relative to the root. Hidden files and
// directories are skipped, as are files whose extension no normaliser handles.
// Watch reports new or rewritten files through fsnotify.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("source closed")

// Source reads verdict files from a local directory.
type Source struct {
	root string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a source rooted at root.
func New(root string) *Source {
	return &Source{root: root}
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return "local:" + s.root
}

// Root returns the root directory.
func (s *Source) Root() string {
	return s.root
}

// List walks the root and returns every supported file, sorted.
func (s *Source) List(ctx context.Context) ([]string, error) {
	if err := s.checkRoot(); err != nil {
		return nil, err
	}

	var ids []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if path != s.root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !domain.SupportedExt(filepath.Ext(path)) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Fetch reads one file by source id.
func (s *Source) Fetch(ctx context.Context, sourceID string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(sourceID)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, sourceID)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sourceID, err)
	}

	uri := path
	if abs, err := filepath.Abs(path); err == nil {
		uri = "file://" + abs
	}
	return &domain.RawDocument{
		SourceID: sourceID,
		URI:      uri,
		MIMEType: domain.MIMETypeForExt(filepath.Ext(path)),
		Content:  content,
		Metadata: map[string]any{"filename": filepath.Base(path)},
	}, nil
}

// Watch reports the source ids of supported files that are created or
// written under the root. The channel closes when ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.checkRoot(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := s.addDirs(watcher); err != nil {
		watcher.Close()
		return nil, err
	}
	s.watcher = watcher

	out := make(chan string)
	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(info.Name()) {
						if err := watcher.Add(event.Name); err != nil {
							logger.Warn("watch %s: %v", event.Name, err)
						}
						continue
					}
				}
				id, ok := s.handleFsEvent(event)
				if !ok {
					continue
				}
				select {
				case out <- id:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error on %s: %v", s.root, err)
			}
		}
	}()
	return out, nil
}

// Close stops any active watcher. It is safe to call more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// handleFsEvent maps a file event to a source id. Only create and write
// events on visible regular files with a supported extension qualify.
func (s *Source) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	rel, err := filepath.Rel(s.root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if isHidden(rel) || !domain.SupportedExt(filepath.Ext(rel)) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return rel, true
}

func (s *Source) addDirs(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != s.root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (s *Source) checkRoot() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("%w: root path error: %w", domain.ErrSourceUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: root path error: %s is not a directory", domain.ErrSourceUnavailable, s.root)
	}
	return nil
}

// resolve joins a source id onto the root, refusing ids that escape it.
func (s *Source) resolve(sourceID string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(sourceID))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: source id %q escapes root", domain.ErrInvalidInput, sourceID)
	}
	return filepath.Join(s.root, clean), nil
}

// isHidden reports whether any path element starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
