package config

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	options := map[string]interface{}{
		"hasHeader": false,
		"delimiter": ";",
		"skipRows":  2,
		"columns":   []interface{}{"a", "b"},
		"nested": map[string]interface{}{
			"name": "inner",
		},
	}

	hasHeader, err := GetBool(options, "hasHeader", WithDefault(true))
	require.NoError(t, err)
	assert.False(t, hasHeader)

	ignoreErrors, err := GetBool(options, "ignoreErrors", WithDefault(false))
	require.NoError(t, err)
	assert.False(t, ignoreErrors)

	delimiter, err := GetString(options, "delimiter")
	require.NoError(t, err)
	assert.Equal(t, ";", delimiter)

	skipRows, err := GetInt(options, "skipRows", WithDefault(0))
	require.NoError(t, err)
	assert.Equal(t, 2, skipRows)

	columns, err := GetStringList(options, "columns")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, columns)

	name, err := GetString(options, "nested.name")
	require.NoError(t, err)
	assert.Equal(t, "inner", name)

	nested, err := GetMap(options, "nested")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "inner"}, nested)

	_, err = GetString(options, "missing")
	assert.Equal(t, ErrNotFound, errors.Cause(err))

	_, err = GetInt(options, "delimiter")
	assert.Error(t, err)

	_, err = GetString(options, "delimiter.inner")
	assert.Error(t, err)
}

func TestGettersEdgeCases(t *testing.T) {
	options := map[string]interface{}{
		"empty":   nil,
		"mixed":   []interface{}{"a", 1},
		"nothing": []interface{}{},
	}

	empty, err := GetString(options, "empty")
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	_, err = GetStringList(options, "mixed")
	assert.EqualError(t, err, "mixed[1] should be string, got int")

	nothing, err := GetStringList(options, "nothing")
	require.NoError(t, err)
	assert.Nil(t, nothing)

	subset, err := GetStringList(options, "subset", WithDefault([]string(nil)))
	require.NoError(t, err)
	assert.Nil(t, subset)

	_, err = GetBool(options, "missing.deeper")
	assert.EqualError(t, err, "missing: field not found")
}
