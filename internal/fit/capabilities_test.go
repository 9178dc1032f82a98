package fit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCapabilities_Dedup(t *testing.T) {
	caps := NewCapabilities(
		Capability{DataType: StepCountDelta, Access: AccessRead},
		Capability{DataType: StepCountDelta, Access: AccessRead},
		Capability{DataType: StepCountDelta, Access: AccessWrite},
	)

	assert.Equal(t, 2, caps.Len())
	assert.Equal(t, "com.google.step_count.delta:read,com.google.step_count.delta:write", caps.String())
}

func TestCapabilities_ItemsIsCopy(t *testing.T) {
	caps := DefaultCapabilities()
	items := caps.Items()
	items[0].Access = AccessWrite

	assert.Equal(t, AccessRead, caps.Items()[0].Access)
}

func TestDefaultCapabilities(t *testing.T) {
	caps := DefaultCapabilities()

	assert.Equal(t, 3, caps.Len())
	assert.Equal(t,
		"com.google.step_count.delta:read,aggregate:com.google.step_count.delta:read,com.google.step_count.delta:write",
		caps.String())
}
