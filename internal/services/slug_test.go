// file: internal/services/slug_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello, World!", "hello-world"},
		{"collapses runs", "How   do I -- use Go?", "how-do-i-use-go"},
		{"strips edges", "!!Important!!", "important"},
		{"already clean", "goroutines", "goroutines"},
		{"digits kept", "Top 10 tips", "top-10-tips"},
		{"no usable characters", "???", "discussion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.title))
		})
	}
}
