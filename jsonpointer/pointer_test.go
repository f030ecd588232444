package jsonpointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	doc := map[string]any{
		"points": []any{
			map[string]any{"x": 1.0, "y": 2.0},
			map[string]any{"x": 3.0, "y": 4.0},
		},
		"a/b": "slash",
		"m~n": "tilde",
		"nested": map[string]any{
			"deep": map[string]any{"value": "found"},
		},
	}

	tests := []struct {
		name    string
		pointer string
		want    any
	}{
		{"root via empty pointer", "", doc},
		{"root via slash", "/", doc},
		{"array element field", "/points/1/x", 3.0},
		{"object field", "/nested/deep/value", "found"},
		{"escaped slash", "/a~1b", "slash"},
		{"escaped tilde", "/m~0n", "tilde"},
		{"missing key", "/nope", nil},
		{"missing nested key", "/nested/nope/deeper", nil},
		{"index out of range", "/points/7", nil},
		{"negative index", "/points/-1", nil},
		{"non-numeric index into array", "/points/x", nil},
		{"descend into scalar", "/points/0/x/deeper", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Get(doc, tt.pointer))
		})
	}
}

func TestGetNilRoot(t *testing.T) {
	assert.Nil(t, Get(nil, "/anything"))
	assert.Nil(t, Get(nil, "/a/b/c"))
}

func TestSetSimple(t *testing.T) {
	root := Set(map[string]any{}, "/name", "Ada")
	obj, ok := root.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", obj["name"])
}

func TestSetCreatesIntermediateObjects(t *testing.T) {
	root := Set(map[string]any{}, "/a/b/c", 42)
	assert.Equal(t, 42, Get(root, "/a/b/c"))
}

func TestSetInfersArrayFromNumericSegment(t *testing.T) {
	root := Set(map[string]any{}, "/items/0/name", "first")
	root = Set(root, "/items/1/name", "second")

	items, ok := Get(root, "/items").([]any)
	require.True(t, ok, "numeric segment should create an array, got %T", Get(root, "/items"))
	assert.Len(t, items, 2)
	assert.Equal(t, "first", Get(root, "/items/0/name"))
	assert.Equal(t, "second", Get(root, "/items/1/name"))
}

func TestSetSparseArrayPadsWithNil(t *testing.T) {
	root := Set(map[string]any{}, "/arr/3", "x")
	arr, ok := Get(root, "/arr").([]any)
	require.True(t, ok)
	require.Len(t, arr, 4)
	assert.Nil(t, arr[0])
	assert.Equal(t, "x", arr[3])
}

func TestSetAppendDash(t *testing.T) {
	root := Set(map[string]any{}, "/arr/0", "a")
	root = Set(root, "/arr/-", "b")
	assert.Equal(t, []any{"a", "b"}, Get(root, "/arr"))
}

func TestSetReplacesRoot(t *testing.T) {
	assert.Equal(t, "whole", Set(map[string]any{"old": 1}, "/", "whole"))
	assert.Equal(t, "whole", Set(nil, "", "whole"))
}

func TestSetOverwritesScalarWithContainer(t *testing.T) {
	root := map[string]any{"a": "scalar"}
	updated := Set(root, "/a/b", 1)
	assert.Equal(t, 1, Get(updated, "/a/b"))
}

func TestSetEscapedSegments(t *testing.T) {
	root := Set(map[string]any{}, "/a~1b/m~0n", "v")
	assert.Equal(t, "v", Get(root, "/a~1b/m~0n"))
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, s := range []string{"plain", "a/b", "m~n", "~1", "/~"} {
		assert.Equal(t, s, UnescapeSegment(EscapeSegment(s)))
	}
}
