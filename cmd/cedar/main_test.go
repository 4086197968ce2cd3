package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in        string
		bbb, c, v string
		wantErr   bool
	}{
		{"MAT 1:2", "MAT", "1", "2", false},
		{"mat 1:2", "MAT", "1", "2", false},
		{"MAT 1", "MAT", "1", "", false},
		{"PSA 119:176", "PSA", "119", "176", false},
		{"1SA 2:3", "SA1", "2", "3", false},
		{"MAT", "", "", "", true},
		{"ZZZ 1:1", "", "", "", true},
	}
	for _, tt := range tests {
		bbb, c, v, err := parseRef(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseRef(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseRef(%q): %v", tt.in, err)
			continue
		}
		if bbb != tt.bbb || c != tt.c || v != tt.v {
			t.Errorf("parseRef(%q) = %s %s:%s, want %s %s:%s",
				tt.in, bbb, c, v, tt.bbb, tt.c, tt.v)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mat.usfm"), []byte("\\id MAT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := detectFormat(dir); got != "usfm" {
		t.Errorf("detectFormat = %q, want usfm", got)
	}
	if err := os.WriteFile(filepath.Join(dir, "mrk.usx"), []byte("<usx/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := detectFormat(dir); got != "usx" {
		t.Errorf("detectFormat = %q, want usx", got)
	}
	if got := detectFormat(filepath.Join(dir, "missing")); got != "usfm" {
		t.Errorf("detectFormat missing dir = %q, want usfm", got)
	}
}
