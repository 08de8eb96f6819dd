package main

import (
	"path/filepath"
	"testing"
)

func TestShouldSkipFile(t *testing.T) {
	tests := []struct {
		path      string
		skipTests bool
		want      bool
	}{
		{"main.go", true, false},
		{"main_test.go", true, true},
		{"main_test.go", false, false},
		{filepath.Join("pkg", "worker", "worker_test.go"), true, true},
		{filepath.Join("pkg", "api", "service.pb.go"), false, true},
		{filepath.Join("pkg", "api", "service.pb.go"), true, true},
		{filepath.Join("some_test.go", "main.go"), true, false},
	}
	for _, tt := range tests {
		if got := shouldSkipFile(tt.path, tt.skipTests); got != tt.want {
			t.Errorf("shouldSkipFile(%q, %v) = %v, want %v", tt.path, tt.skipTests, got, tt.want)
		}
	}
}
