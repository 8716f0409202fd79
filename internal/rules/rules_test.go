package rules_test

import (
	"strings"
	"testing"

	"cursormark/internal/rules"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		rules    []string
		expected bool
	}{
		{
			name:     "wildcard matches nested path",
			path:     "Deep/Nested/Folder/a.md",
			rules:    []string{"Other", "/*"},
			expected: true,
		},
		{
			name:     "wildcard matches root path",
			path:     "a.md",
			rules:    []string{"/*"},
			expected: true,
		},
		{
			name:     "exact folder matches direct child",
			path:     "Folder/a.md",
			rules:    []string{"Folder"},
			expected: true,
		},
		{
			name:     "exact folder rejects descendant",
			path:     "Folder/sub/a.md",
			rules:    []string{"Folder"},
			expected: false,
		},
		{
			name:     "exact folder rejects sibling prefix",
			path:     "Folder2/a.md",
			rules:    []string{"Folder"},
			expected: false,
		},
		{
			name:     "subtree matches direct child",
			path:     "Folder/a.md",
			rules:    []string{"Folder/*"},
			expected: true,
		},
		{
			name:     "subtree matches descendant",
			path:     "Folder/sub/a.md",
			rules:    []string{"Folder/*"},
			expected: true,
		},
		{
			name:     "subtree rejects other folder",
			path:     "OtherFolder/a.md",
			rules:    []string{"Folder/*"},
			expected: false,
		},
		{
			name:     "root rule matches top-level document",
			path:     "a.md",
			rules:    []string{"/"},
			expected: true,
		},
		{
			name:     "root rule rejects nested document",
			path:     "Folder/a.md",
			rules:    []string{"/"},
			expected: false,
		},
		{
			name:     "empty rule list matches nothing",
			path:     "a.md",
			rules:    nil,
			expected: false,
		},
		{
			name:     "first match wins across rules",
			path:     "Notes/daily/a.md",
			rules:    []string{"/", "Archive", "Notes/*"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.Matches(tt.path, tt.rules)
			if got != tt.expected {
				t.Errorf("Matches(%q, %v) = %v, want %v", tt.path, tt.rules, got, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "trims whitespace and drops blanks",
			raw:      "  Folder  \n\n\tNotes/*\n   \n/",
			expected: []string{"Folder", "Notes/*", "/"},
		},
		{
			name:     "empty string yields no rules",
			raw:      "",
			expected: nil,
		},
		{
			name:     "whitespace only yields no rules",
			raw:      " \n\t\n ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.Parse(tt.raw)
			if len(got) != len(tt.expected) {
				t.Fatalf("Parse(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Parse(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func FuzzParse(f *testing.F) {
	f.Add("Folder\nNotes/*\n/")
	f.Add("  \n\n\t")
	f.Add("/*")

	f.Fuzz(func(t *testing.T, raw string) {
		parsed := rules.Parse(raw)
		for _, rule := range parsed {
			if rule == "" {
				t.Errorf("Parse(%q) produced an empty rule", raw)
			}
			if rule != strings.TrimSpace(rule) {
				t.Errorf("Parse(%q) produced untrimmed rule %q", raw, rule)
			}
		}
		// Matching against parsed rules must never panic.
		rules.Matches("Folder/a.md", parsed)
	})
}
