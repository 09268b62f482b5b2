package navigation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "/api/configs/7", ConfigPath(7))
	assert.Equal(t, "/api/configs/7/values", KeyValuesPath(7))
	assert.Equal(t, "/api/values/12", KeyValuePath(12))
}

func TestRecorder_Location(t *testing.T) {
	r := NewRecorder()
	assert.Empty(t, r.Location())

	r.ShowDetails(3)
	assert.Equal(t, "/api/configs/3", r.Location())

	r.ShowKeyValueDetails(3, nil)
	assert.Equal(t, "/api/configs/3/values", r.Location())

	id := uint64(9)
	r.ShowKeyValueDetails(3, &id)
	assert.Equal(t, "/api/values/9", r.Location())
}

func TestRecorder_Err(t *testing.T) {
	r := NewRecorder()
	assert.NoError(t, r.Err())

	first := errors.New("first")
	second := errors.New("second")
	r.NotifyError(first)
	r.NotifyError(second)

	assert.ErrorIs(t, r.Err(), first)
	assert.ErrorIs(t, r.Err(), second)
}
