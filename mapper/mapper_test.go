package mapper

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/maptools/maptools/maperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectPointerCopy(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/name": "/user/name"}}`)
	result, err := m.Map(context.Background(), doc, map[string]any{
		"user": map[string]any{"name": "Ada"},
	}, nil)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, map[string]any{"name": "Ada"}, result.Output)
}

func TestEachProjection(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/titles": {
		"source": "/books",
		"each": {"mapping": {"/t": "/title"}}
	}}}`)
	result, err := m.Map(context.Background(), doc, map[string]any{
		"books": []any{
			map[string]any{"title": "A"},
			map[string]any{"title": "B"},
		},
	}, nil)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, map[string]any{"titles": []any{
		map[string]any{"t": "A"},
		map[string]any{"t": "B"},
	}}, result.Output)
}

func TestEachOverEmptyArrayWritesEmptyArray(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/titles": {
		"source": "/books",
		"each": {"mapping": {"/t": "/title"}}
	}}}`)
	result, err := m.Map(context.Background(), doc, map[string]any{"books": []any{}}, nil)
	require.NoError(t, err)

	titles, written := result.Output["titles"]
	require.True(t, written, "an empty array must still be written")
	assert.Equal(t, []any{}, titles)
}

func TestValidationShortCircuitsPairings(t *testing.T) {
	var laterCalled bool
	plugins := map[string]Plugin{
		"probe": func(_ context.Context, _ any, value any, _ *Context) (any, error) {
			laterCalled = true
			return value, nil
		},
	}
	m, err := New(nil, Options{Plugins: plugins})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {
		"/n": {"source": "/n", "type": "integer", "minimum": 10},
		"/later": {"source": "/n", "probe": true}
	}}`)
	result, err := m.Map(context.Background(), doc, map[string]any{"n": 3}, nil)
	require.NoError(t, err)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "minimum", result.Errors[0].Constraint)
	assert.Equal(t, 10, result.Errors[0].Bound)
	assert.False(t, laterCalled, "pairings after a validation failure must not run")
	_, written := result.Output["later"]
	assert.False(t, written)
}

func TestTemplateEndToEnd(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/full": {
		"template": "{{first}} {{last}}",
		"mapping": {"/first": "/f", "/last": "/l"}
	}}}`)
	result, err := m.Map(context.Background(), doc, map[string]any{"f": "Grace", "l": "Hopper"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", result.Output["full"])
}

func TestMappingByRef(t *testing.T) {
	doc := mustParse(t, `{
		"mappings": [
			{"$id": "Person", "source": "/user", "mapping": {"/n": "/name"}}
		]
	}`)
	m, err := New(doc, Options{})
	require.NoError(t, err)

	top := mustParse(t, `{"mapping": {"/p": {"$ref": "Person"}}}`)
	result, err := m.Map(context.Background(), top, map[string]any{
		"user": map[string]any{"name": "Ada"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"p": map[string]any{"n": "Ada"}}, result.Output)
}

func TestMappingByName(t *testing.T) {
	doc := mustParse(t, `{
		"mappings": [
			{"$id": "Person", "source": "/user", "mapping": {"/n": "/name"}}
		]
	}`)
	m, err := New(doc, Options{})
	require.NoError(t, err)

	top := mustParse(t, `{"mapping": {"/p": "Person"}}`)
	result, err := m.Map(context.Background(), top, map[string]any{
		"user": map[string]any{"name": "Ada"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"p": map[string]any{"n": "Ada"}}, result.Output)
}

func TestMissingRefIsNoOp(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/p": {"$ref": "Nope"}, "/kept": "/x"}}`)
	result, err := m.Map(context.Background(), doc, map[string]any{"x": 1}, nil)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	_, written := result.Output["p"]
	assert.False(t, written)
	assert.Equal(t, 1, result.Output["kept"])
}

func TestPointerStringBeatsUnregisteredName(t *testing.T) {
	// A bare pointer that is not a registered mapping name reads the source;
	// registered-name lookup only wins for actual registrations.
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/v": "/Person"}}`)
	result, err := m.Map(context.Background(), doc, map[string]any{"Person": "a value"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a value", result.Output["v"])
}

func TestArrayRightSidePicksFirstTruthy(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/v": ["/empty", "/filled", "/other"]}}`)
	result, err := m.Map(context.Background(), doc, map[string]any{
		"empty":  "",
		"filled": "yes",
		"other":  "also",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "yes", result.Output["v"])
}

func TestMapArrayInputRewraps(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/t": "/title"}}`)
	result, err := m.Map(context.Background(), doc, []any{
		map[string]any{"title": "A"},
		map[string]any{"title": "B"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"items": []any{
		map[string]any{"t": "A"},
		map[string]any{"t": "B"},
	}}, result.Output)
}

func TestMapBarePairsObjectWraps(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	// No "mapping" key: the object is the pairs container itself.
	doc := mustParse(t, `{"/name": "/user/name"}`)
	result, err := m.Map(context.Background(), doc, map[string]any{
		"user": map[string]any{"name": "Ada"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ada"}, result.Output)
}

func TestMapMappingsContainerEvaluatesLast(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{
		"mappings": [
			{"$id": "First", "mapping": {"/a": "/a"}},
			{"$id": "Second", "mapping": {"/b": "/b"}}
		]
	}`)
	result, err := m.Map(context.Background(), doc, map[string]any{"a": 1, "b": 2}, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"b": 2}, result.Output)
	assert.ElementsMatch(t, []string{"First", "Second"}, m.Mappings())
}

func TestMapNilDescriptorUsesLastRegistered(t *testing.T) {
	doc := mustParse(t, `{
		"mappings": [
			{"$id": "Only", "mapping": {"/a": "/a"}}
		]
	}`)
	m, err := New(doc, Options{})
	require.NoError(t, err)

	result, err := m.Map(context.Background(), nil, map[string]any{"a": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, result.Output)
}

func TestMapNilDescriptorWithoutRegistrationFails(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	_, err = m.Map(context.Background(), nil, map[string]any{}, nil)
	assert.ErrorIs(t, err, maperrors.ErrConfig)
}

func TestMapUnknownNameFails(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	_, err = m.Map(context.Background(), "Nope", map[string]any{}, nil)
	assert.ErrorIs(t, err, maperrors.ErrConfig)
}

func TestMapInitialSeedsOutput(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/name": "/n"}}`)
	result, err := m.Map(context.Background(), doc, map[string]any{"n": "Ada"},
		map[string]any{"preset": true})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"preset": true, "name": "Ada"}, result.Output)
}

func TestNestedObjectProjection(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/person": {
		"source": "/user",
		"mapping": {"/n": "/name", "/city": "/address/city"}
	}}}`)
	result, err := m.Map(context.Background(), doc, map[string]any{
		"user": map[string]any{
			"name":    "Ada",
			"address": map[string]any{"city": "London"},
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"person": map[string]any{
		"n":    "Ada",
		"city": "London",
	}}, result.Output)
}

func TestStdoutPointerSink(t *testing.T) {
	var sink bytes.Buffer
	m, err := New(nil, Options{Stdout: &sink})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/name": "/n"}, "stdout": "/name"}`)
	_, err = m.Map(context.Background(), doc, map[string]any{"n": "Ada"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "\"Ada\"\n", sink.String())
}

func TestStdoutTruthyDumpsTarget(t *testing.T) {
	var sink bytes.Buffer
	m, err := New(nil, Options{Stdout: &sink})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/name": "/n"}, "stdout": true}`)
	_, err = m.Map(context.Background(), doc, map[string]any{"n": "Ada"}, nil)
	require.NoError(t, err)

	var dumped map[string]any
	require.NoError(t, json.Unmarshal(sink.Bytes(), &dumped))
	assert.Equal(t, map[string]any{"name": "Ada"}, dumped)
}

func TestPureDescriptorIsIdempotent(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {
		"/name": "/user/name",
		"/tags": {"source": "/tags", "concat": true},
		"/role": {"first": ["/missing", {"constant": "guest"}]}
	}}`)
	input := map[string]any{
		"user": map[string]any{"name": "Ada"},
		"tags": []any{[]any{"a"}, []any{"b"}},
	}

	first, err := m.Map(context.Background(), doc, input, nil)
	require.NoError(t, err)
	second, err := m.Map(context.Background(), doc, input, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, first.Errors, second.Errors)
}

func TestAddRegistersForLaterMaps(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	require.NoError(t, m.Add(mustParse(t, `{"$id": "Solo", "mapping": {"/a": "/a"}}`)))

	result, err := m.Map(context.Background(), "Solo", map[string]any{"a": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, result.Output)

	_, ok := m.Mapping("Solo")
	assert.True(t, ok)
}

func TestSwitchOnMappingPairing(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)

	doc := mustParse(t, `{"mapping": {"/kinds": {
		"source": "/animals",
		"switch": {
			"source": "/legs",
			"cases": {
				"2": {"constant": "biped"},
				"4": {"constant": "quadruped"},
				"default": {"constant": "other"}
			}
		}
	}}}`)
	result, err := m.Map(context.Background(), doc, map[string]any{
		"animals": map[string]any{"legs": 4},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "quadruped", result.Output["kinds"])
}
