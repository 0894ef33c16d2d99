package jsonschema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalJSON_BooleanSchema(t *testing.T) {
	var trueSchema Schema
	require.NoError(t, json.Unmarshal([]byte(`true`), &trueSchema))
	assert.True(t, trueSchema.IsBoolean())
	assert.True(t, trueSchema.BoolValue())

	var falseSchema Schema
	require.NoError(t, json.Unmarshal([]byte(`false`), &falseSchema))
	assert.True(t, falseSchema.IsBoolean())
	assert.False(t, falseSchema.BoolValue())
}

func TestUnmarshalJSON_TypeNormalizesToSlice(t *testing.T) {
	var single Schema
	require.NoError(t, json.Unmarshal([]byte(`{"type":"string"}`), &single))
	assert.Equal(t, []string{"string"}, single.Type)

	var multi Schema
	require.NoError(t, json.Unmarshal([]byte(`{"type":["string","null"]}`), &multi))
	assert.Equal(t, []string{"string", "null"}, multi.Type)
}

func TestUnmarshalJSON_ItemsSingleVsTuple(t *testing.T) {
	var single Schema
	require.NoError(t, json.Unmarshal([]byte(`{"items":{"type":"string"}}`), &single))
	require.NotNil(t, single.ItemsSingle)
	assert.Nil(t, single.ItemsTuple)
	assert.Equal(t, []string{"string"}, single.ItemsSingle.Type)

	var tuple Schema
	require.NoError(t, json.Unmarshal([]byte(`{"items":[{"type":"string"},{"type":"integer"}]}`), &tuple))
	assert.Nil(t, tuple.ItemsSingle)
	require.Len(t, tuple.ItemsTuple, 2)
	assert.Equal(t, []string{"integer"}, tuple.ItemsTuple[1].Type)
}

func TestUnmarshalJSON_ConstDistinguishesAbsentFromNull(t *testing.T) {
	var absent Schema
	require.NoError(t, json.Unmarshal([]byte(`{"type":"string"}`), &absent))
	assert.Nil(t, absent.Const)

	var presentNull Schema
	require.NoError(t, json.Unmarshal([]byte(`{"const":null}`), &presentNull))
	require.NotNil(t, presentNull.Const)
	assert.True(t, presentNull.Const.IsSet)
	assert.Nil(t, presentNull.Const.Value)

	var presentValue Schema
	require.NoError(t, json.Unmarshal([]byte(`{"const":"fixed"}`), &presentValue))
	require.NotNil(t, presentValue.Const)
	assert.Equal(t, "fixed", presentValue.Const.Value)
}

func TestUnmarshalJSON_CollectsUnknownExtensions(t *testing.T) {
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(`{"type":"object","x-modelgen-inferred-name":"Widget"}`), &s))
	name, ok := s.InferredName()
	assert.True(t, ok)
	assert.Equal(t, "Widget", name)
}

func TestSetInferredName_DoesNotClobberOtherExtensions(t *testing.T) {
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(`{"type":"object","x-custom":1}`), &s))
	s.SetInferredName("Widget")

	name, ok := s.InferredName()
	assert.True(t, ok)
	assert.Equal(t, "Widget", name)
	assert.Equal(t, float64(1), s.Extensions["x-custom"])
}

func TestMarshalJSON_RoundTripsBooleanAndItems(t *testing.T) {
	trueVal := true
	data, err := json.Marshal(&Schema{Boolean: &trueVal})
	require.NoError(t, err)
	assert.JSONEq(t, `true`, string(data))

	tupleSchema := &Schema{
		Type:       []string{TypeArray},
		ItemsTuple: []*Schema{{Type: []string{TypeString}}, {Type: []string{TypeInteger}}},
	}
	data, err = json.Marshal(tupleSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":["array"],"items":[{"type":["string"]},{"type":["integer"]}]}`, string(data))
}

func TestSortedTypes_DedupsAndSorts(t *testing.T) {
	assert.Equal(t, []string{"integer", "string"}, SortedTypes([]string{"string", "integer", "string"}))
	assert.Nil(t, SortedTypes(nil))
}
