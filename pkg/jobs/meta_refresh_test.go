package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetaRefreshJobMetadata(t *testing.T) {
	job := NewMetaRefreshJob(nil, nil, "meta_analysis/meta_summary.json")

	assert.Equal(t, "meta_refresh", job.Name())
	assert.Equal(t, "30 3 * * *", job.Schedule())
}
