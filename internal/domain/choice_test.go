package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoice_ListDropsBlanksAndDuplicates(t *testing.T) {
	c := List("Math", " ", "Science", "Math", " Art ")

	assert.True(t, c.IsList())
	assert.Equal(t, []string{"Math", "Science", "Art"}, c.Values())
	assert.Equal(t, "Math, Science, Art", c.String())
}

func TestChoice_SingleItemListStaysArray(t *testing.T) {
	data, err := json.Marshal(List("Space"))
	require.NoError(t, err)
	assert.JSONEq(t, `["Space"]`, string(data))

	var back Choice
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.IsList())
	assert.Equal(t, []string{"Space"}, back.Values())
}

func TestChoice_UnmarshalAcceptsStringOrArray(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		list   bool
		values []string
	}{
		{"string", `"Primary"`, false, []string{"Primary"}},
		{"array", `["Primary","Secondary"]`, true, []string{"Primary", "Secondary"}},
		{"empty array", `[]`, true, nil},
		{"null", `null`, false, nil},
		{"blank string", `"  "`, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Choice
			require.NoError(t, json.Unmarshal([]byte(tt.input), &c))
			assert.Equal(t, tt.list, c.IsList())
			assert.Equal(t, tt.values, c.Values())
		})
	}
}

func TestChoice_UnmarshalRejectsNumbers(t *testing.T) {
	var c Choice
	assert.Error(t, json.Unmarshal([]byte(`42`), &c))
}

func TestChoice_As(t *testing.T) {
	assert.Equal(t, "Primary,Secondary", List("Primary", "Secondary").As(ShapeScalar).String())
	assert.True(t, Scalar("Visual").As(ShapeList).IsList())
	assert.Equal(t, []string{"Visual"}, Scalar("Visual").As(ShapeList).Values())
	assert.True(t, List("a").As(ShapeList).Equal(List("a")))
}

func TestChoice_MarshalEmpty(t *testing.T) {
	data, err := json.Marshal(List())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	data, err = json.Marshal(Choice{})
	require.NoError(t, err)
	assert.JSONEq(t, `""`, string(data))
}
