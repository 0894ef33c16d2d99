package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xseman/modelgen/internal/jsonschema"
)

func objType(t string) []string { return []string{t} }

func TestResolve_InlinesDefinitionRef(t *testing.T) {
	root := &jsonschema.Schema{
		Type: objType(jsonschema.TypeObject),
		Properties: jsonschema.SchemaMap{
			"pet": {Ref: "#/definitions/Pet"},
		},
		Definitions: jsonschema.SchemaMap{
			"Pet": {
				Type: objType(jsonschema.TypeObject),
				Properties: jsonschema.SchemaMap{
					"name": {Type: objType(jsonschema.TypeString)},
				},
			},
		},
	}

	resolved, err := Resolve(root)
	require.NoError(t, err)

	pet := resolved.Properties["pet"]
	require.NotNil(t, pet)
	assert.Equal(t, objType(jsonschema.TypeObject), pet.Type)
	assert.Contains(t, pet.Properties, "name")
	assert.Nil(t, resolved.Definitions, "definitions must be emptied after resolution")
}

func TestResolve_CyclicReferenceUsesSentinel(t *testing.T) {
	root := &jsonschema.Schema{
		Type: objType(jsonschema.TypeObject),
		Properties: jsonschema.SchemaMap{
			"self": {Ref: "#/definitions/Node"},
		},
		Definitions: jsonschema.SchemaMap{
			"Node": {
				Type: objType(jsonschema.TypeObject),
				Properties: jsonschema.SchemaMap{
					"next": {Ref: "#/definitions/Node"},
				},
			},
		},
	}

	resolved, err := Resolve(root)
	require.NoError(t, err)

	node := resolved.Properties["self"]
	require.NotNil(t, node)
	next := node.Properties["next"]
	require.NotNil(t, next)
	assert.Empty(t, next.Properties, "second encounter of a cyclic ref must substitute the empty-object sentinel")
}

func TestResolve_UnresolvableReferenceErrors(t *testing.T) {
	root := &jsonschema.Schema{
		Type: objType(jsonschema.TypeObject),
		Properties: jsonschema.SchemaMap{
			"missing": {Ref: "#/definitions/DoesNotExist"},
		},
	}

	_, err := Resolve(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestResolve_TupleItemsByIndex(t *testing.T) {
	root := &jsonschema.Schema{
		Type: objType(jsonschema.TypeArray),
		ItemsTuple: []*jsonschema.Schema{
			{Type: objType(jsonschema.TypeString)},
			{Ref: "#/definitions/Tail"},
		},
		Definitions: jsonschema.SchemaMap{
			"Tail": {Type: objType(jsonschema.TypeInteger)},
		},
	}

	resolved, err := Resolve(root)
	require.NoError(t, err)
	require.Len(t, resolved.ItemsTuple, 2)
	assert.Equal(t, objType(jsonschema.TypeInteger), resolved.ItemsTuple[1].Type)
}
