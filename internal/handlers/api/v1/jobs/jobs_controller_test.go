package jobs

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListQueryDefaults(t *testing.T) {
	req := parseListQuery(httptest.NewRequest("GET", "/api/v1/jobs", nil))

	assert.Nil(t, req.Search)
	assert.Nil(t, req.Urgent)
	assert.Nil(t, req.PostedAfter)
	assert.Equal(t, 1, req.Page)
	assert.Empty(t, req.Ordering)
}

func TestParseListQueryFilters(t *testing.T) {
	target := "/api/v1/jobs?search=go+engineer&job_type=full-time&location=nairobi" +
		"&experience_level=senior&remote=hybrid&min_salary=100k&urgent=true" +
		"&posted_after=2026-01-15&deadline_before=2026-03-01T00:00:00Z" +
		"&page=3&ordering=-salary"
	req := parseListQuery(httptest.NewRequest("GET", target, nil))

	require.NotNil(t, req.Search)
	assert.Equal(t, "go engineer", *req.Search)
	require.NotNil(t, req.JobType)
	assert.Equal(t, "full-time", *req.JobType)
	require.NotNil(t, req.Location)
	assert.Equal(t, "nairobi", *req.Location)
	require.NotNil(t, req.Remote)
	assert.Equal(t, "hybrid", *req.Remote)
	require.NotNil(t, req.Urgent)
	assert.True(t, *req.Urgent)

	require.NotNil(t, req.PostedAfter)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), *req.PostedAfter)
	require.NotNil(t, req.DeadlineBefore)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *req.DeadlineBefore)

	assert.Equal(t, 3, req.Page)
	assert.Equal(t, "-salary", req.Ordering)
}

func TestParseListQueryIgnoresGarbage(t *testing.T) {
	target := "/api/v1/jobs?urgent=maybe&posted_after=yesterday&page=-2"
	req := parseListQuery(httptest.NewRequest("GET", target, nil))

	assert.Nil(t, req.Urgent)
	assert.Nil(t, req.PostedAfter)
	assert.Equal(t, 1, req.Page)
}
