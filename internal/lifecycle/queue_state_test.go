package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/topupadmin/internal/models"
)

func TestQueueLabel(t *testing.T) {
	assert.Equal(t, "Active", QueueLabel(models.QueueActive))
	assert.Equal(t, "Scheduled", QueueLabel(models.QueueDelayed))
	assert.Equal(t, "Waiting", QueueLabel(models.QueueWaiting))
	assert.Equal(t, "paused", QueueLabel(models.QueueState("paused")))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 200, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-5))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, 350, ClampLimit(350))
	assert.Equal(t, 500, ClampLimit(500))
	assert.Equal(t, 500, ClampLimit(9000))
}
