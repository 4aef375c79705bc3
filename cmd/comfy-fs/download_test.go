package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPattern(t *testing.T) {
	cases := []struct {
		pattern string
		dir     string
		glob    string
	}{
		{"/reports/*.pdf", "/reports", "*.pdf"},
		{"/reports/2024/*.xlsx", "/reports/2024", "*.xlsx"},
		{"/*.txt", "/", "*.txt"},
		{"*.txt", "/", "*.txt"},
		{"/data/backup*", "/data", "backup*"},
	}
	for _, tc := range cases {
		t.Run(tc.pattern, func(t *testing.T) {
			dir, glob := splitPattern(tc.pattern)
			assert.Equal(t, tc.dir, dir)
			assert.Equal(t, tc.glob, glob)
		})
	}
}
