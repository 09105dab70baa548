package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemafiles "github.com/jonathan/talent-match/schemas"
)

func TestValidateEmbedded_FieldPaths(t *testing.T) {
	err := ValidateEmbedded(schemafiles.ExtractedFieldsSchema, []byte(`{"age":"trinta"}`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "age", verr.Errors[0].Field)

	err = ValidateEmbedded(schemafiles.ExtractedFieldsSchema, []byte(`[]`))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "(root)", verr.Errors[0].Field)
}

func TestValidateEmbedded_MalformedDocument(t *testing.T) {
	err := ValidateEmbedded(schemafiles.ExtractedFieldsSchema, []byte(`{ invalid json }`))
	var lerr *SchemaLoadError
	assert.True(t, errors.As(err, &lerr))
}

func TestValidateEmbedded_ExtractedFields(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{name: "full", json: `{"name":"João Pereira","email":"joao@example.com","age":30,"years_experience":5,"skills":["Go"],"employers":[]}`},
		{name: "nulls", json: `{"name":null,"age":null,"skills":null}`},
		{name: "empty object", json: `{}`},
		{name: "age as string", json: `{"age":"trinta"}`, wantErr: true},
		{name: "implausible age", json: `{"age":7}`, wantErr: true},
		{name: "skills not array", json: `{"skills":"Go, SQL"}`, wantErr: true},
		{name: "array root", json: `[]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmbedded(schemafiles.ExtractedFieldsSchema, []byte(tt.json))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmbedded_UnknownSchema(t *testing.T) {
	err := ValidateEmbedded("nope.schema.json", []byte(`{}`))
	var lerr *SchemaLoadError
	assert.True(t, errors.As(err, &lerr))
}
