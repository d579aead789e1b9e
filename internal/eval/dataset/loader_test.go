package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewLoader(t *testing.T) {
	path := "./captions.parquet"
	loader := NewLoader(path)

	if loader.datasetPath != path {
		t.Errorf("Expected path %s, got %s", path, loader.datasetPath)
	}
}

func writeJSONL(t *testing.T, lines []string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "captions.jsonl")

	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test dataset: %v", err)
	}
	return path
}

func TestLoadJSONL(t *testing.T) {
	path := writeJSONL(t, []string{
		`{"id":"img_001","image_path":"images/001.jpg","caption":"A dog on a beach"}`,
		`{"id":"img_002","image_url":"https://example.com/002.jpg","caption":"A bowl of fruit"}`,
		``,
		`{"id":"img_003","image_path":"/abs/003.png","caption":"Skyscrapers at night"}`,
	})

	loader := NewLoader(path)
	records, err := loader.Load()
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	if records[0].ID != "img_001" {
		t.Errorf("Expected id img_001, got %s", records[0].ID)
	}
	if records[1].ImageURL != "https://example.com/002.jpg" {
		t.Errorf("Expected image URL, got %s", records[1].ImageURL)
	}
	if records[2].Caption != "Skyscrapers at night" {
		t.Errorf("Expected caption, got %s", records[2].Caption)
	}
}

func TestLoadSampleLimit(t *testing.T) {
	path := writeJSONL(t, []string{
		`{"id":"img_001","caption":"one"}`,
		`{"id":"img_002","caption":"two"}`,
		`{"id":"img_003","caption":"three"}`,
	})

	loader := NewLoader(path)
	records, err := loader.LoadSample(2)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestLoadMalformedJSONL(t *testing.T) {
	path := writeJSONL(t, []string{
		`{"id":"img_001","caption":"one"}`,
		`not json at all`,
	})

	loader := NewLoader(path)
	if _, err := loader.Load(); err == nil {
		t.Error("Expected error for malformed JSONL")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	loader := NewLoader("./captions.csv")
	if _, err := loader.Load(); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestCaptionRecordHelpers(t *testing.T) {
	tests := []struct {
		name     string
		record   CaptionRecord
		hasImage bool
		resolved string
	}{
		{
			name:     "relative path resolves against base dir",
			record:   CaptionRecord{ImagePath: "images/001.jpg"},
			hasImage: true,
			resolved: filepath.Join("/data", "images/001.jpg"),
		},
		{
			name:     "absolute path kept as-is",
			record:   CaptionRecord{ImagePath: "/abs/003.png"},
			hasImage: true,
			resolved: "/abs/003.png",
		},
		{
			name:     "url only",
			record:   CaptionRecord{ImageURL: "https://example.com/x.jpg"},
			hasImage: true,
			resolved: "",
		},
		{
			name:     "no image",
			record:   CaptionRecord{Caption: "orphan caption"},
			hasImage: false,
			resolved: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.HasImage(); got != tt.hasImage {
				t.Errorf("HasImage() = %v, expected %v", got, tt.hasImage)
			}
			if got := tt.record.ResolveImagePath("/data"); got != tt.resolved {
				t.Errorf("ResolveImagePath() = %q, expected %q", got, tt.resolved)
			}
		})
	}
}

func TestReferenceCaptionTrims(t *testing.T) {
	record := CaptionRecord{Caption: "  A dog on a beach \n"}
	if got := record.ReferenceCaption(); got != "A dog on a beach" {
		t.Errorf("Expected trimmed caption, got %q", got)
	}
}
