package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_AbsentNullValue(t *testing.T) {
	type payload struct {
		Name Field[string] `json:"name"`
	}

	var absent payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Name.Set)

	var null payload
	require.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &null))
	assert.True(t, null.Name.Set)
	assert.False(t, null.Name.Valid)
	assert.Nil(t, null.Name.Ptr())

	var set payload
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x"}`), &set))
	assert.True(t, set.Name.Set)
	assert.True(t, set.Name.Valid)
	require.NotNil(t, set.Name.Ptr())
	assert.Equal(t, "x", *set.Name.Ptr())
}

func TestField_TypeMismatch(t *testing.T) {
	var f Field[int]
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &f))
}

func TestConstructors(t *testing.T) {
	f := Of(7)
	assert.True(t, f.Set)
	assert.True(t, f.Valid)
	assert.Equal(t, 7, f.Value)

	n := Null[int]()
	assert.True(t, n.Set)
	assert.False(t, n.Valid)
}
