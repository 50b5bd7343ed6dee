// Package fs implements a filesystem-backed blob Store. Artifact bytes live
// under a root directory; a JSON sidecar (key + ".meta") carries content type
// and user metadata.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"degcore/internal/infra/blob/core"
)

const metaSuffix = ".meta"

// Store implements core.Store on the local filesystem. Writes are atomic via
// temp file + rename; beyond that it is not concurrent-writer safe.
type Store struct {
	root string
}

// New returns a filesystem-backed blob store rooted at path, creating it if
// needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./artifacts"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Driver returns the blob driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// sanitizeKey forbids traversal and absolute paths so keys cannot escape the
// root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q: contains '..'", key)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid key %q: absolute path", key)
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid key %q: traversal", key)
	}
	return clean, nil
}

func (s *Store) pathFor(key string) (dataPath, metaPath string, err error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", "", err
	}
	dataPath = filepath.Join(s.root, filepath.FromSlash(k))
	metaPath = dataPath + metaSuffix
	return dataPath, metaPath, nil
}

type sidecar struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ETag        string            `json:"etag"`
	Size        int64             `json:"size"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Put stores a new artifact; errors if the key exists.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.ObjectInfo, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return core.ObjectInfo{}, err
	}
	if _, err := os.Stat(dataPath); err == nil {
		return core.ObjectInfo{}, fmt.Errorf("blob %s already exists", key)
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return core.ObjectInfo{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
	if err != nil {
		return core.ObjectInfo{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	h := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		_ = tmp.Close()
		return core.ObjectInfo{}, err
	}
	if err := tmp.Close(); err != nil {
		return core.ObjectInfo{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return core.ObjectInfo{}, err
	}

	etag := hex.EncodeToString(h.Sum(nil))
	now := time.Now().UTC()
	meta := sidecar{
		ContentType: opts.ContentType,
		Metadata:    core.CloneMetadata(opts.Metadata),
		ETag:        etag,
		Size:        size,
		CreatedAt:   now,
	}
	if err := writeJSON(metaPath, meta); err != nil {
		return core.ObjectInfo{}, err
	}
	return core.ObjectInfo{
		Key:          key,
		Size:         size,
		ContentType:  opts.ContentType,
		ETag:         etag,
		Metadata:     core.CloneMetadata(opts.Metadata),
		LastModified: now,
		URL:          s.localURL(key),
	}, nil
}

// Get returns artifact metadata and a reader over the stored bytes.
func (s *Store) Get(ctx context.Context, key string) (core.ObjectInfo, io.ReadCloser, error) {
	info, err := s.Head(ctx, key)
	if err != nil {
		return core.ObjectInfo{}, nil, err
	}
	dataPath, _, err := s.pathFor(key)
	if err != nil {
		return core.ObjectInfo{}, nil, err
	}
	f, err := os.Open(dataPath)
	if err != nil {
		return core.ObjectInfo{}, nil, err
	}
	return info, f, nil
}

// Head returns artifact metadata only.
func (s *Store) Head(_ context.Context, key string) (core.ObjectInfo, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return core.ObjectInfo{}, err
	}
	st, err := os.Stat(dataPath)
	if err != nil {
		return core.ObjectInfo{}, fmt.Errorf("blob %s not found", key)
	}
	var meta sidecar
	if err := readJSON(metaPath, &meta); err != nil {
		// Sidecar lost; fall back to file facts.
		meta = sidecar{Size: st.Size(), CreatedAt: st.ModTime().UTC()}
	}
	return core.ObjectInfo{
		Key:          key,
		Size:         meta.Size,
		ContentType:  meta.ContentType,
		ETag:         meta.ETag,
		Metadata:     core.CloneMetadata(meta.Metadata),
		LastModified: st.ModTime().UTC(),
		URL:          s.localURL(key),
	}, nil
}

// Delete removes the artifact and its sidecar, returning true if it existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(dataPath); err != nil {
		return false, nil
	}
	if err := os.Remove(dataPath); err != nil {
		return false, err
	}
	_ = os.Remove(metaPath)
	return true, nil
}

// List walks the root and returns artifacts matching prefix in key order.
func (s *Store) List(ctx context.Context, prefix string) ([]core.ObjectInfo, error) {
	var out []core.ObjectInfo
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, metaSuffix) || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := s.Head(ctx, key)
		if err != nil {
			return err
		}
		out = append(out, info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// PresignURL returns a file URL; filesystem blobs need no signing.
func (s *Store) PresignURL(_ context.Context, key string, _ core.SignedURLOptions) (string, error) {
	if _, err := sanitizeKey(key); err != nil {
		return "", err
	}
	return s.localURL(key), nil
}

func (s *Store) localURL(key string) string {
	abs, err := filepath.Abs(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil {
		return ""
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
