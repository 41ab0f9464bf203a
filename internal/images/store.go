// Package images persists uploaded images for vision requests and
// serves them back by id. The storage root is injected at
// construction; directory creation is an idempotent init step.
package images

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	thumbSize = 150
	uploadDir = "uploads"
	thumbDir  = "thumbs"
)

// Stored describes one persisted image.
type Stored struct {
	ID           string
	OriginalName string
	FullPath     string
	ThumbPath    string
	FullURL      string
	ThumbURL     string
}

// Store writes originals and thumbnails under a single root directory.
// Concurrent writers are safe because ids are unique per save;
// concurrent readers and deleters race benignly on the filesystem.
type Store struct {
	uploads string
	thumbs  string
}

// NewStore creates the storage directories under root if needed.
func NewStore(root string) (*Store, error) {
	s := &Store{
		uploads: filepath.Join(root, uploadDir),
		thumbs:  filepath.Join(root, thumbDir),
	}
	for _, dir := range []string{s.uploads, s.thumbs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create image dir: %w", err)
		}
	}
	return s, nil
}

// Save writes the original bytes unmodified and derives a bounded
// thumbnail (aspect-preserving, never upscaled). The id is the current
// time plus a random suffix; collisions are treated as negligible.
func (s *Store) Save(data []byte, originalName string) (*Stored, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	id := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".png"
	}

	fullPath := filepath.Join(s.uploads, id+ext)
	if err := writeAtomic(fullPath, data); err != nil {
		return nil, fmt.Errorf("write image: %w", err)
	}

	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)
	var encoded bytes.Buffer
	if err := imaging.Encode(&encoded, thumb, imaging.JPEG); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	thumbPath := filepath.Join(s.thumbs, id+".jpg")
	if err := writeAtomic(thumbPath, encoded.Bytes()); err != nil {
		return nil, fmt.Errorf("write thumbnail: %w", err)
	}

	return &Stored{
		ID:           id,
		OriginalName: originalName,
		FullPath:     fullPath,
		ThumbPath:    thumbPath,
		FullURL:      "/images/" + id + "/full",
		ThumbURL:     "/images/" + id + "/thumb",
	}, nil
}

// Locate resolves an id + variant to a file path. The full-resolution
// lookup scans for a filename prefix match because the extension is
// not encoded in the id. A missing file reports os.ErrNotExist.
func (s *Store) Locate(id, variant string) (string, error) {
	if strings.ContainsAny(id, "/\\") {
		return "", os.ErrNotExist
	}
	switch variant {
	case "thumb":
		path := filepath.Join(s.thumbs, id+".jpg")
		if _, err := os.Stat(path); err != nil {
			return "", os.ErrNotExist
		}
		return path, nil
	case "full":
		entries, err := os.ReadDir(s.uploads)
		if err != nil {
			return "", err
		}
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), id+".") {
				return filepath.Join(s.uploads, entry.Name()), nil
			}
		}
	}
	return "", os.ErrNotExist
}

// Remove deletes the originals and thumbnails referenced by retrieval
// URLs and returns the number of originals actually removed. Files
// already gone are skipped silently.
func (s *Store) Remove(urls []string) int {
	deleted := 0
	for _, id := range idsFromURLs(urls) {
		if path, err := s.Locate(id, "full"); err == nil {
			if os.Remove(path) == nil {
				deleted++
			}
		}
		_ = os.Remove(filepath.Join(s.thumbs, id+".jpg"))
	}
	return deleted
}

// idsFromURLs parses "/images/{id}/{variant}" paths, deduplicating so
// a full+thumb URL pair counts one image.
func idsFromURLs(urls []string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, u := range urls {
		parts := strings.Split(strings.Trim(u, "/"), "/")
		if len(parts) < 3 || parts[len(parts)-3] != "images" {
			continue
		}
		id := parts[len(parts)-2]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
