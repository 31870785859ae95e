package loam

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aretw0/loam"
	"github.com/openpermit/openpermit/pkg/domain"
)

// Document is the decoded body of a stored file.
type Document = map[string]any

// Entry is a document read from a directory listing.
type Entry struct {
	Path     string
	Document Document
}

// Store opens one typed repository per directory and caches it.
type Store struct {
	readOnly bool

	mu    sync.Mutex
	repos map[string]*loam.TypedRepository[Document]
}

// Option configures a Store.
type Option func(*Store)

// ReadOnly opens repositories without write access. Commands that only read
// documents use it so Loam never redirects them to a scratch copy.
func ReadOnly() Option {
	return func(s *Store) {
		s.readOnly = true
	}
}

// New creates a Store.
func New(opts ...Option) *Store {
	s := &Store{repos: make(map[string]*loam.TypedRepository[Document])}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) repo(dir string) (*loam.TypedRepository[Document], error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.repos[abs]; ok {
		return r, nil
	}

	opts := []loam.Option{loam.WithStrict(true), loam.WithReadOnly(true)}
	if !s.readOnly {
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		opts = []loam.Option{loam.WithVersioning(false), loam.WithForceTemp(false)}
	}
	repo, err := loam.Init(abs, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam at %s: %w", dir, err)
	}
	r := loam.NewTypedRepository[Document](repo)
	s.repos[abs] = r
	return r, nil
}

// Load reads the document stored at path.
func (s *Store) Load(ctx context.Context, path string) (Document, error) {
	r, err := s.repo(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	doc, err := r.Get(ctx, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if doc.Data == nil {
		return nil, fmt.Errorf("%s does not contain an object", path)
	}
	return doc.Data, nil
}

// LoadNode reads the node stored at path.
func (s *Store) LoadNode(ctx context.Context, path string) (*domain.Node, error) {
	doc, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	n, err := domain.Deserialize(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Save writes doc to path, replacing any previous content.
func (s *Store) Save(ctx context.Context, path string, doc Document) error {
	if s.readOnly {
		return fmt.Errorf("cannot save %s: store is read-only", path)
	}
	r, err := s.repo(filepath.Dir(path))
	if err != nil {
		return err
	}
	err = r.Save(ctx, &loam.DocumentModel[Document]{
		ID:   filepath.Base(path),
		Data: doc,
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// SaveNode writes the canonical form of n to path.
func (s *Store) SaveNode(ctx context.Context, path string, n *domain.Node) error {
	return s.Save(ctx, path, n.Serialize().Map())
}

// List returns every document in dir, sorted by path.
func (s *Store) List(ctx context.Context, dir string) ([]Entry, error) {
	r, err := s.repo(dir)
	if err != nil {
		return nil, err
	}
	docs, err := r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed for %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, Entry{
			Path:     filepath.Join(dir, filepath.FromSlash(doc.ID)),
			Document: doc.Data,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Expand replaces each directory in paths with the documents it holds. Files are
// loaded in place and keep their position.
func (s *Store) Expand(ctx context.Context, paths []string) ([]Entry, error) {
	var out []Entry
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		if info.IsDir() {
			entries, err := s.List(ctx, p)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
			continue
		}
		doc, err := s.Load(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Path: p, Document: doc})
	}
	return out, nil
}
