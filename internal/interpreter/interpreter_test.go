package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xseman/modelgen/internal/jsonschema"
	"github.com/xseman/modelgen/internal/model"
)

func findByID(all []*model.CommonModel, id string) *model.CommonModel {
	for _, m := range all {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func TestInterpret_SimpleObject(t *testing.T) {
	schema := &jsonschema.Schema{
		ID:   "A",
		Type: []string{jsonschema.TypeObject},
		Properties: jsonschema.SchemaMap{
			"x": {Type: []string{jsonschema.TypeString}},
		},
	}

	all, err := Interpret(schema, "root")
	require.NoError(t, err)

	primary := all[0]
	assert.Equal(t, "A", primary.ID)
	assert.True(t, primary.IsObjectModel())
	require.Contains(t, primary.Properties, "x")

	xModel := primary.Properties["x"]
	assert.Equal(t, []string{jsonschema.TypeString}, xModel.Type)
	assert.Contains(t, all, xModel)
}

func TestInterpret_EnumCollapse(t *testing.T) {
	schema := &jsonschema.Schema{
		ID:   "S",
		Type: []string{jsonschema.TypeString},
		Enum: []any{"a", "b", "c"},
	}

	all, err := Interpret(schema, "root")
	require.NoError(t, err)

	primary := all[0]
	assert.Equal(t, "S", primary.ID)
	assert.Equal(t, []string{jsonschema.TypeString}, primary.Type)
	assert.Equal(t, []any{"a", "b", "c"}, primary.Enum)
}

func TestInterpret_ObjectTypeInferredFromProperties(t *testing.T) {
	schema := &jsonschema.Schema{
		ID: "Inferred",
		Properties: jsonschema.SchemaMap{
			"name": {Type: []string{jsonschema.TypeString}},
		},
	}

	all, err := Interpret(schema, "root")
	require.NoError(t, err)
	assert.Equal(t, []string{jsonschema.TypeObject}, all[0].Type)
}

func TestInterpret_AllOfExtendsObjectMembers(t *testing.T) {
	schema := &jsonschema.Schema{
		ID:   "Dog",
		Type: []string{jsonschema.TypeObject},
		AllOf: []*jsonschema.Schema{
			{ID: "Animal", Type: []string{jsonschema.TypeObject}, Properties: jsonschema.SchemaMap{
				"name": {Type: []string{jsonschema.TypeString}},
			}},
		},
	}

	all, err := Interpret(schema, "root")
	require.NoError(t, err)

	primary := all[0]
	assert.Equal(t, []string{"Animal"}, primary.Extend)
	assert.NotNil(t, findByID(all, "Animal"))
}

func TestInterpret_AllOfMergesNonObjectMembers(t *testing.T) {
	schema := &jsonschema.Schema{
		ID: "Merged",
		AllOf: []*jsonschema.Schema{
			{Type: []string{jsonschema.TypeInteger}},
		},
	}

	all, err := Interpret(schema, "root")
	require.NoError(t, err)
	assert.Contains(t, all[0].Type, jsonschema.TypeInteger)
	assert.Empty(t, all[0].Extend)
}

func TestInterpret_AnyOfUnionsTypeAndEmitsSiblings(t *testing.T) {
	schema := &jsonschema.Schema{
		ID: "Union",
		AnyOf: []*jsonschema.Schema{
			{ID: "StrVariant", Type: []string{jsonschema.TypeString}},
			{ID: "IntVariant", Type: []string{jsonschema.TypeInteger}},
		},
	}

	all, err := Interpret(schema, "root")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{jsonschema.TypeString, jsonschema.TypeInteger}, all[0].Type)
	assert.NotNil(t, findByID(all, "StrVariant"))
	assert.NotNil(t, findByID(all, "IntVariant"))
}

func TestInterpret_BooleanSchemas(t *testing.T) {
	trueVal, falseVal := true, false

	trueAll, err := Interpret(&jsonschema.Schema{Boolean: &trueVal}, "anything")
	require.NoError(t, err)
	assert.False(t, trueAll[0].IsUnsatisfiableModel())

	falseAll, err := Interpret(&jsonschema.Schema{Boolean: &falseVal}, "nothing")
	require.NoError(t, err)
	assert.True(t, falseAll[0].IsUnsatisfiableModel())
}

func TestInterpret_AdditionalPropertiesDefaultsToTrue(t *testing.T) {
	schema := &jsonschema.Schema{ID: "A", Type: []string{jsonschema.TypeObject}}

	all, err := Interpret(schema, "root")
	require.NoError(t, err)
	require.NotNil(t, all[0].AdditionalProperties)
	assert.False(t, all[0].AdditionalProperties.IsUnsatisfiableModel())
}

func TestInterpret_NotSubtractsEnumValues(t *testing.T) {
	schema := &jsonschema.Schema{
		ID:   "S",
		Type: []string{jsonschema.TypeString},
		Enum: []any{"a", "b", "c"},
		Not:  &jsonschema.Schema{Enum: []any{"b"}},
	}

	all, err := Interpret(schema, "root")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, all[0].Enum)
}

func TestInterpret_TupleItems(t *testing.T) {
	schema := &jsonschema.Schema{
		ID:   "Tuple",
		Type: []string{jsonschema.TypeArray},
		ItemsTuple: []*jsonschema.Schema{
			{Type: []string{jsonschema.TypeString}},
			{Type: []string{jsonschema.TypeInteger}},
		},
	}

	all, err := Interpret(schema, "root")
	require.NoError(t, err)
	require.Len(t, all[0].ItemsTuple, 2)
	assert.Equal(t, []string{jsonschema.TypeString}, all[0].ItemsTuple[0].Type)
	assert.Equal(t, []string{jsonschema.TypeInteger}, all[0].ItemsTuple[1].Type)
}
