package dataset

import (
	"path/filepath"
	"strings"
)

// CaptionRecord is one row of a reference caption dataset: an image
// (local path or URL) paired with a human-written caption
type CaptionRecord struct {
	ID        string `parquet:"id" json:"id"`
	ImagePath string `parquet:"image_path,optional" json:"image_path,omitempty"`
	ImageURL  string `parquet:"image_url,optional" json:"image_url,omitempty"`
	Caption   string `parquet:"caption" json:"caption"`
}

// HasImage reports whether the record points at an image at all
func (r *CaptionRecord) HasImage() bool {
	return r.ImagePath != "" || r.ImageURL != ""
}

// ResolveImagePath returns the local image path, joining relative paths
// against the dataset's base directory
func (r *CaptionRecord) ResolveImagePath(baseDir string) string {
	if r.ImagePath == "" {
		return ""
	}
	if filepath.IsAbs(r.ImagePath) {
		return r.ImagePath
	}
	return filepath.Join(baseDir, r.ImagePath)
}

// ReferenceCaption returns the trimmed reference caption
func (r *CaptionRecord) ReferenceCaption() string {
	return strings.TrimSpace(r.Caption)
}
