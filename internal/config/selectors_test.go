package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSelectors_Positional(t *testing.T) {
	s := DefaultSelectors

	if got := s.Entry(3); got != ".com-rigsomelight-devcards-list-group-item:nth-child(3)" {
		t.Errorf("unexpected entry selector %s", got)
	}
	if got := s.EntryCount(2); got != ".com-rigsomelight-devcards-list-group-item:nth-child(2) span" {
		t.Errorf("unexpected count selector %s", got)
	}
	if got := s.AssertionName(1); got != ".com-rigsomelight-devcard:nth-child(1) a" {
		t.Errorf("unexpected name selector %s", got)
	}

	markers := s.AssertionMarkers(4)
	if len(markers) != 2 {
		t.Fatalf("expected 2 marker selectors, got %d", len(markers))
	}
	if markers[1] != ".com-rigsomelight-devcard:nth-child(4) .com-rigsomelight-devcards-error" {
		t.Errorf("unexpected marker selector %s", markers[1])
	}
}

func TestSelectors_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Selectors)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Selectors) {}},
		{name: "empty list item", mutate: func(s *Selectors) { s.ListItem = "" }, wantErr: true},
		{name: "entry without index", mutate: func(s *Selectors) { s.ListEntry = ".item" }, wantErr: true},
		{name: "card with two indexes", mutate: func(s *Selectors) { s.Card = ".c:nth-child(%d) .d:nth-child(%d)" }, wantErr: true},
		{name: "no failure markers", mutate: func(s *Selectors) { s.FailureMarkers = nil }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New().Selectors
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadSelectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.toml")
	content := `
card = ".card:nth-of-type(%d)"
failure_markers = [".bad"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write selectors: %v", err)
	}

	s, err := LoadSelectors(path, DefaultSelectors)
	if err != nil {
		t.Fatalf("load selectors: %v", err)
	}
	if s.Card != ".card:nth-of-type(%d)" {
		t.Errorf("card selector not overridden: %s", s.Card)
	}
	if len(s.FailureMarkers) != 1 || s.FailureMarkers[0] != ".bad" {
		t.Errorf("failure markers not overridden: %v", s.FailureMarkers)
	}
	if s.ListItem != DefaultSelectors.ListItem {
		t.Errorf("unset selector must keep default, got %s", s.ListItem)
	}

	if _, err := LoadSelectors(filepath.Join(t.TempDir(), "missing.toml"), DefaultSelectors); err == nil {
		t.Error("expected an error for a missing file")
	}
}
