package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusPending, StatusReviewed, StatusAccepted, StatusRejected} {
		assert.True(t, ValidStatus(status))
	}
	for _, status := range []string{"", "pending", "Archived", "ACCEPTED"} {
		assert.False(t, ValidStatus(status), "status %q", status)
	}
}

func TestStringListScan(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan([]byte(`["go","postgres"]`)))
	assert.Equal(t, StringList{"go", "postgres"}, list)

	var empty StringList
	require.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty)

	value, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestJSONMapScan(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan(`{"name":"acme","founded":"1999"}`))
	assert.Equal(t, "acme", m["name"])

	assert.Error(t, m.Scan(42))
}
