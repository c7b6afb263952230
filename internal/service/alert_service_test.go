package service

import (
	"context"
	"testing"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertService_Raise_Roundtrip(t *testing.T) {
	_, jobs, alerts := setupRepos(t)
	ctx := context.Background()
	svc := NewAlertService(alerts, jobs, DefaultShop())

	job := testutil.NewTestJob("WO-5001", testutil.WithCurrentDept(domain.DeptWelding))
	require.NoError(t, jobs.Create(ctx, job))

	resolution := testutil.Date(time.Now().UTC().AddDate(0, 0, 5))
	alert, err := svc.Raise(ctx, "WO-5001", domain.DeptWelding, "fixture jammed", resolution)
	require.NoError(t, err)
	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, job.ID, alert.JobID)
	assert.Equal(t, domain.AlertActive, alert.Status)

	fetched, err := svc.Get(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, "fixture jammed", fetched.Reason)
	assert.True(t, fetched.EstimatedResolution.Equal(resolution))
}

func TestAlertService_Raise_Rejections(t *testing.T) {
	_, jobs, alerts := setupRepos(t)
	ctx := context.Background()
	svc := NewAlertService(alerts, jobs, DefaultShop())

	done := testutil.NewTestJob("WO-5010", testutil.WithJobStatus(domain.JobCompleted))
	require.NoError(t, jobs.Create(ctx, done))
	resolution := testutil.Date(time.Now().UTC().AddDate(0, 0, 5))

	_, err := svc.Raise(ctx, "WO-9999", domain.DeptWelding, "", resolution)
	assert.Error(t, err, "unknown job should be rejected")

	_, err = svc.Raise(ctx, "WO-5010", domain.DeptWelding, "", resolution)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completed")

	_, err = svc.Raise(ctx, "WO-5010", "Paint", "", resolution)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the pipeline")

	_, err = svc.Raise(ctx, "WO-5010", domain.DeptWelding, "", time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolution date is required")
}

func TestAlertService_Get_ByUniquePrefix(t *testing.T) {
	_, jobs, alerts := setupRepos(t)
	ctx := context.Background()
	svc := NewAlertService(alerts, jobs, DefaultShop())

	job := testutil.NewTestJob("WO-5020")
	require.NoError(t, jobs.Create(ctx, job))

	a := testutil.NewTestAlert(job.ID, domain.DeptLaser)
	a.ID = "feed0001-aaaa-bbbb-cccc-000000000001"
	require.NoError(t, alerts.Create(ctx, a))
	b := testutil.NewTestAlert(job.ID, domain.DeptWelding)
	b.ID = "feed0002-aaaa-bbbb-cccc-000000000002"
	require.NoError(t, alerts.Create(ctx, b))

	got, err := svc.Get(ctx, "feed0001")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = svc.Get(ctx, "feed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = svc.Get(ctx, "beef")
	assert.Error(t, err, "no match should report not found")
}

func TestAlertService_List_ActiveOnlyByDefault(t *testing.T) {
	_, jobs, alerts := setupRepos(t)
	ctx := context.Background()
	svc := NewAlertService(alerts, jobs, DefaultShop())

	job := testutil.NewTestJob("WO-5030")
	require.NoError(t, jobs.Create(ctx, job))
	require.NoError(t, alerts.Create(ctx, testutil.NewTestAlert(job.ID, domain.DeptLaser)))
	require.NoError(t, alerts.Create(ctx, testutil.NewTestAlert(job.ID, domain.DeptWelding,
		testutil.WithAlertStatus(domain.AlertResolved))))

	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAlertService_Resolve(t *testing.T) {
	_, jobs, alerts := setupRepos(t)
	ctx := context.Background()
	svc := NewAlertService(alerts, jobs, DefaultShop())

	job := testutil.NewTestJob("WO-5040", testutil.WithCurrentDept(domain.DeptLaser))
	require.NoError(t, jobs.Create(ctx, job))
	alert, err := svc.Raise(ctx, "WO-5040", domain.DeptLaser, "laser down",
		testutil.Date(time.Now().UTC().AddDate(0, 0, 3)))
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(ctx, alert.ID))

	cur, err := svc.Get(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertResolved, cur.Status)

	err = svc.Resolve(ctx, alert.ID)
	assert.Error(t, err, "resolving twice should be rejected")
}
