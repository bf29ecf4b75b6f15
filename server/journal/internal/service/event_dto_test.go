package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventPatchDTOTimeEndTriState(t *testing.T) {
	var absent EventPatchDTO
	assert.NoError(t, json.Unmarshal([]byte(`{"isCompleted":true}`), &absent))
	assert.False(t, absent.TimeEnd.Set)

	var null EventPatchDTO
	assert.NoError(t, json.Unmarshal([]byte(`{"timeEnd":null}`), &null))
	assert.True(t, null.TimeEnd.Set)
	assert.Nil(t, null.TimeEnd.Value)

	var explicit EventPatchDTO
	assert.NoError(t, json.Unmarshal([]byte(`{"timeEnd":"2025-06-10T10:30:00Z"}`), &explicit))
	assert.True(t, explicit.TimeEnd.Set)
	assert.NotNil(t, explicit.TimeEnd.Value)
	assert.Equal(t, time.Date(2025, 6, 10, 10, 30, 0, 0, time.UTC), explicit.TimeEnd.Value.UTC())
}

func TestEventPatchDTOOtherFieldsOptional(t *testing.T) {
	var dto EventPatchDTO
	assert.NoError(t, json.Unmarshal([]byte(`{"measuresTaken":"replaced fuse"}`), &dto))

	assert.Nil(t, dto.IsCompleted)
	assert.Nil(t, dto.Comment)
	assert.NotNil(t, dto.MeasuresTaken)
	assert.Equal(t, "replaced fuse", *dto.MeasuresTaken)
}
