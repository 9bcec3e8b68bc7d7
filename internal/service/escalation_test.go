package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEdit(t *testing.T) {
	now := time.Now().UTC()

	assert.Equal(t, ClassSilentUpdate, ClassifyEdit(nil))
	assert.Equal(t, ClassUrgentUpdate, ClassifyEdit(&now))
}

func TestClassificationNotify(t *testing.T) {
	assert.True(t, ClassNew.Notify())
	assert.True(t, ClassUrgentUpdate.Notify())
	assert.False(t, ClassSilentUpdate.Notify())
}
