package fill

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

func testSchema() *types.SerializedSchema {
	return &types.SerializedSchema{Fields: []types.SchemaField{
		{Key: "foo", Type: types.FieldTypeString, Label: "Foo"},
		{Key: "bar", Type: types.FieldTypeNumber, Label: "Bar"},
	}}
}

func TestBuildQueueExistingField(t *testing.T) {
	queue := BuildQueue(testSchema(), nil, map[string]any{"foo": "bar"}, nil, nil)

	require.Len(t, queue, 1)
	item := queue[0]
	require.Equal(t, "foo", item.Key)
	require.Equal(t, "bar", item.Value)
	require.False(t, item.IsNewField)
	require.Nil(t, item.PreviousValue)
	require.Equal(t, defaultExistingExplanation, item.Explanation)
}

func TestBuildQueueExtraField(t *testing.T) {
	queue := BuildQueue(testSchema(), nil, map[string]any{},
		[]ExtraValue{{Key: "extra", Value: 1}}, nil)

	require.Len(t, queue, 1)
	item := queue[0]
	require.Equal(t, "extra", item.Key)
	require.Equal(t, 1, item.Value)
	require.True(t, item.IsNewField)
	require.Nil(t, item.PreviousValue)
	require.Equal(t, defaultNewFieldExplanation, item.Explanation)
}

func TestBuildQueueOrderingAndPrevious(t *testing.T) {
	current := map[string]any{"foo": "old", "bar": 1}
	parsed := map[string]any{"bar": 2, "foo": "new", "ghost": true}
	extras := []ExtraValue{{Key: "x", Value: "a"}, {Key: "y", Value: "b"}}
	explanations := map[string]string{"foo": "found in the header", "x": "looked new"}

	queue := BuildQueue(testSchema(), current, parsed, extras, explanations)

	// Existing fields first, in schema field order; the unknown parsed
	// key is dropped; extras follow in given order.
	require.Len(t, queue, 4)
	require.Equal(t, []string{"foo", "bar", "x", "y"},
		[]string{queue[0].Key, queue[1].Key, queue[2].Key, queue[3].Key})

	require.Equal(t, "old", queue[0].PreviousValue)
	require.Equal(t, "found in the header", queue[0].Explanation)
	require.Equal(t, 1, queue[1].PreviousValue)
	require.Equal(t, defaultExistingExplanation, queue[1].Explanation)

	require.True(t, queue[2].IsNewField)
	require.Equal(t, "looked new", queue[2].Explanation)
	require.True(t, queue[3].IsNewField)
	require.Equal(t, defaultNewFieldExplanation, queue[3].Explanation)
}

func TestBuildQueueEmpty(t *testing.T) {
	require.Empty(t, BuildQueue(testSchema(), nil, nil, nil, nil))
}
