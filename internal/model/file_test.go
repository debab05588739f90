package model

import (
	"strings"
	"testing"
)

func TestNewImportedFile(t *testing.T) {
	file := NewImportedFile("/home/user/Pictures/Holiday.JPG", 3)

	if !strings.HasPrefix(file.ID, FileIDPrefix) {
		t.Errorf("Expected ID to start with %q, got %q", FileIDPrefix, file.ID)
	}
	if file.Status != FileStatusNotConverted {
		t.Errorf("Expected status NotConverted, got %s", file.Status)
	}
	if file.HasTarget() {
		t.Error("New file should not have a target")
	}
	if file.Name() != "Holiday.JPG" {
		t.Errorf("Name() = %q", file.Name())
	}
	if file.Extension() != ".jpg" {
		t.Errorf("Extension() = %q", file.Extension())
	}
	if file.GetDisplayTitle() != "3. Holiday.JPG" {
		t.Errorf("GetDisplayTitle() = %q", file.GetDisplayTitle())
	}
}

func TestGenerateFileID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateFileID()
		if seen[id] {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = true
	}
}

func TestImportedFile_Clone(t *testing.T) {
	f := NewImportedFile("/in/a.png", 1)
	f.TargetExtension = ".bmp"

	c := f.Clone()
	c.TargetExtension = ".jpg"
	c.Status = FileStatusConverted

	if c.ID != f.ID {
		t.Errorf("Expected clone ID %q, got %q", f.ID, c.ID)
	}
	if f.TargetExtension != ".bmp" || f.Status != FileStatusNotConverted {
		t.Errorf("Mutating the clone changed the original: %+v", f)
	}
}
