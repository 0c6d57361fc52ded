package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/internal/models"
)

func statusPayload(pairs map[string]interface{}) map[string]json.RawMessage {
	payload := make(map[string]json.RawMessage, len(pairs))
	for key, value := range pairs {
		raw, _ := json.Marshal(value)
		payload[key] = raw
	}
	return payload
}

func TestApplyRequiresJobSeeker(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")
	jobID := postJob(t, env, company.User.ID, "Engineer")

	_, err := env.svc.Application.Apply(context.Background(), company.User.ID, &ApplyRequest{JobID: jobID})
	require.Error(t, err)
	assert.True(t, IsForbiddenError(err))
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")
	seeker := env.registerSeeker(t, "jane")
	jobID := postJob(t, env, company.User.ID, "Engineer")

	app, err := env.svc.Application.Apply(context.Background(), seeker.User.ID, &ApplyRequest{
		JobID:       jobID,
		CoverLetter: "I would be great at this",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, "Engineer", app.JobTitle)
	assert.Equal(t, "jane", app.JobSeekerUsername)
	assert.False(t, app.AppliedAt.IsZero())

	job, err := env.svc.Job.Get(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, 1, job.ApplicantsCount)
}

func TestApplyTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")
	seeker := env.registerSeeker(t, "jane")
	jobID := postJob(t, env, company.User.ID, "Engineer")

	_, err := env.svc.Application.Apply(context.Background(), seeker.User.ID, &ApplyRequest{JobID: jobID})
	require.NoError(t, err)

	_, err = env.svc.Application.Apply(context.Background(), seeker.User.ID, &ApplyRequest{JobID: jobID})
	require.Error(t, err)
	assert.True(t, IsConflictError(err))
	assert.Equal(t, http.StatusBadRequest, GetServiceError(err).GetStatusCode())

	// The counter is not double-bumped.
	job, err := env.svc.Job.Get(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, 1, job.ApplicantsCount)
}

func TestApplyToMissingJob(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.registerSeeker(t, "jane")

	_, err := env.svc.Application.Apply(context.Background(), seeker.User.ID, &ApplyRequest{JobID: 999})
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestUpdateStatusByOwningCompany(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")
	seeker := env.registerSeeker(t, "jane")
	jobID := postJob(t, env, company.User.ID, "Engineer")

	app, err := env.svc.Application.Apply(context.Background(), seeker.User.ID, &ApplyRequest{JobID: jobID})
	require.NoError(t, err)

	updated, err := env.svc.Application.UpdateStatus(context.Background(), company.User.ID, app.ID,
		statusPayload(map[string]interface{}{"status": "Accepted"}))
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)

	// Any transition between known statuses is allowed, including back to
	// Pending.
	updated, err = env.svc.Application.UpdateStatus(context.Background(), company.User.ID, app.ID,
		statusPayload(map[string]interface{}{"status": "Pending"}))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
}

func TestUpdateStatusRejectsExtraFields(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")
	seeker := env.registerSeeker(t, "jane")
	jobID := postJob(t, env, company.User.ID, "Engineer")

	app, err := env.svc.Application.Apply(context.Background(), seeker.User.ID, &ApplyRequest{JobID: jobID})
	require.NoError(t, err)

	_, err = env.svc.Application.UpdateStatus(context.Background(), company.User.ID, app.ID,
		statusPayload(map[string]interface{}{"status": "Accepted", "cover_letter": "rewritten"}))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	// The whole request is rejected, nothing is applied.
	stored, err := env.svc.Application.UpdateStatus(context.Background(), company.User.ID, app.ID,
		statusPayload(map[string]interface{}{"status": "Reviewed"}))
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewed, stored.Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")
	seeker := env.registerSeeker(t, "jane")
	jobID := postJob(t, env, company.User.ID, "Engineer")

	app, err := env.svc.Application.Apply(context.Background(), seeker.User.ID, &ApplyRequest{JobID: jobID})
	require.NoError(t, err)

	for _, payload := range []map[string]json.RawMessage{
		statusPayload(map[string]interface{}{"status": "Archived"}),
		statusPayload(map[string]interface{}{"status": 42}),
		statusPayload(map[string]interface{}{}),
	} {
		_, err = env.svc.Application.UpdateStatus(context.Background(), company.User.ID, app.ID, payload)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	}
}

func TestUpdateStatusForbiddenForOthers(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")
	other := env.registerCompany(t, "globex")
	seeker := env.registerSeeker(t, "jane")
	jobID := postJob(t, env, company.User.ID, "Engineer")

	app, err := env.svc.Application.Apply(context.Background(), seeker.User.ID, &ApplyRequest{JobID: jobID})
	require.NoError(t, err)

	payload := statusPayload(map[string]interface{}{"status": "Accepted"})

	_, err = env.svc.Application.UpdateStatus(context.Background(), other.User.ID, app.ID, payload)
	require.Error(t, err)
	assert.True(t, IsForbiddenError(err))

	_, err = env.svc.Application.UpdateStatus(context.Background(), seeker.User.ID, app.ID, payload)
	require.Error(t, err)
	assert.True(t, IsForbiddenError(err))
}

func TestListReceivedScopedToCompany(t *testing.T) {
	env := newTestEnv(t)
	acme := env.registerCompany(t, "acme")
	globex := env.registerCompany(t, "globex")
	seeker := env.registerSeeker(t, "jane")

	acmeJob := postJob(t, env, acme.User.ID, "Engineer")
	globexJob := postJob(t, env, globex.User.ID, "Designer")

	_, err := env.svc.Application.Apply(context.Background(), seeker.User.ID, &ApplyRequest{JobID: acmeJob})
	require.NoError(t, err)
	_, err = env.svc.Application.Apply(context.Background(), seeker.User.ID, &ApplyRequest{JobID: globexJob})
	require.NoError(t, err)

	apps, total, _, err := env.svc.Application.ListReceived(context.Background(), acme.User.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, apps, 1)
	assert.Equal(t, "Engineer", apps[0].JobTitle)

	_, _, _, err = env.svc.Application.ListReceived(context.Background(), seeker.User.ID, 1)
	require.Error(t, err)
	assert.True(t, IsForbiddenError(err))
}

func TestListMineScopedToJobSeeker(t *testing.T) {
	env := newTestEnv(t)
	acme := env.registerCompany(t, "acme")
	jane := env.registerSeeker(t, "jane")
	bob := env.registerSeeker(t, "bob")
	jobID := postJob(t, env, acme.User.ID, "Engineer")

	_, err := env.svc.Application.Apply(context.Background(), jane.User.ID, &ApplyRequest{JobID: jobID})
	require.NoError(t, err)

	apps, total, _, err := env.svc.Application.ListMine(context.Background(), jane.User.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, apps, 1)

	apps, total, _, err = env.svc.Application.ListMine(context.Background(), bob.User.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, apps)

	_, _, _, err = env.svc.Application.ListMine(context.Background(), acme.User.ID, 1)
	require.Error(t, err)
	assert.True(t, IsForbiddenError(err))
}
