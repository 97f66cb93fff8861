package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateListResponse_CountInMeta(t *testing.T) {
	resp := CreateListResponse([]string{"maize", "sorghum"}, 2)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	require.NotNil(t, resp.Meta.Count)
	assert.Equal(t, 2, *resp.Meta.Count)
	assert.False(t, resp.Meta.Timestamp.IsZero())
}

func TestCreateSuccessResponse_NoCount(t *testing.T) {
	resp := CreateSuccessResponse(map[string]any{"ok": true})

	require.NotNil(t, resp.Meta)
	assert.Nil(t, resp.Meta.Count)
}

func TestCreateErrorResponse(t *testing.T) {
	resp := CreateErrorResponse("UNKNOWN_CROP", "crop quinoa is not supported")

	assert.False(t, resp.Success)
	assert.Equal(t, "UNKNOWN_CROP", resp.Error.Code)
	assert.Equal(t, "crop quinoa is not supported", resp.Error.Message)
}
