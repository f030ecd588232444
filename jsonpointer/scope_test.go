package jsonpointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		segments []string
		want     string
	}{
		{"root base no segments", "/", nil, "/"},
		{"empty base defaults to root", "", []string{"/a"}, "/a"},
		{"append absolute segment", "/books", []string{"/title"}, "/books/title"},
		{"index between scope and offset", "/books", []string{"/2", "/title"}, "/books/2/title"},
		{"relative segment", "/books/2", []string{"../author"}, "/books/author"},
		{"double parent", "/a/b/c", []string{"../../x"}, "/a/x"},
		{"dot segments collapse", "/a", []string{"./b"}, "/a/b"},
		{"repeated separators collapse", "/a//b", []string{"//c"}, "/a/b/c"},
		{"empty segments skipped", "/a", []string{"", "/b", ""}, "/a/b"},
		{"parent of root stays at root", "/", []string{"../../a"}, "/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.base, tt.segments...))
		})
	}
}
