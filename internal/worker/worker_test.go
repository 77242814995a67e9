package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"koalgroup/internal/infra"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"
	"koalgroup/internal/testutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

type env struct {
	db       *gorm.DB
	rdb      *redis.Client
	reports  repository.ReportRepository
	sources  Sources
	dlq      *DeadLetters
	mail     *fakeEmailQueue
	storage  string
	admin    *model.User
	sup, emp *model.User
	mine     *model.Project
	theirs   *model.Project
}

type fakeEmailQueue struct {
	mu   sync.Mutex
	jobs []EmailJobPayload
}

func (q *fakeEmailQueue) EnqueueEmail(_ context.Context, p EmailJobPayload) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, p)
	return nil
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)
	e := &env{
		db:      db,
		rdb:     rdb,
		reports: repository.NewReportRepository(db),
		sources: Sources{
			Projects:   repository.NewProjectRepository(db),
			Production: repository.NewProductionRecordRepository(db),
			AccessLogs: repository.NewAccessLogRepository(db),
		},
		dlq:     NewDeadLetters(rdb),
		mail:    &fakeEmailQueue{},
		storage: t.TempDir(),
		admin:   testutil.NewUser(t, db, "admin", model.RoleAdmin),
		sup:     testutil.NewUser(t, db, "sup", model.RoleSupervisor),
		emp:     testutil.NewUser(t, db, "emp", model.RoleEmployee),
	}
	other := testutil.NewUser(t, db, "sup2", model.RoleSupervisor)

	e.mine = &model.Project{Name: "Mina Norte", Location: "Norte", StartDate: testNow.AddDate(0, -6, 0), Status: "Activo", ManagerID: &e.sup.ID}
	e.theirs = &model.Project{Name: "Mina Sur", Location: "Sur", StartDate: testNow.AddDate(0, -3, 0), Status: "Activo", ManagerID: &other.ID}
	require.NoError(t, e.sources.Projects.Create(ctx, e.mine))
	require.NoError(t, e.sources.Projects.Create(ctx, e.theirs))

	for i, p := range []*model.Project{e.mine, e.mine, e.theirs} {
		require.NoError(t, e.sources.Production.Create(ctx, &model.ProductionRecord{
			ProjectID: p.ID, EmployeeID: &e.emp.ID, Date: testNow.AddDate(0, 0, -i-1),
			MaterialType: "Carbon", Quantity: decimal.NewFromFloat(2.5), Unit: "ton",
		}))
	}
	for _, typ := range []model.AccessType{model.AccessEntry, model.AccessExit} {
		require.NoError(t, e.sources.AccessLogs.Create(ctx, &model.AccessLog{
			EmployeeID: e.emp.ID, AccessType: typ, Timestamp: testNow, Area: "Bocamina",
		}))
	}
	return e
}

func (e *env) worker(t *testing.T) *ReportWorker {
	t.Helper()
	return NewReportWorker(ReportWorkerConfig{
		Reports:     e.reports,
		Sources:     e.sources,
		DLQ:         e.dlq,
		Email:       e.mail,
		StoragePath: e.storage,
		Now:         func() time.Time { return testNow },
	})
}

func (e *env) report(t *testing.T, requester *model.User, typ model.ReportType) *model.Report {
	t.Helper()
	r := &model.Report{
		Title:            "Reporte",
		Type:             typ,
		Status:           model.ReportPending,
		RequestedByID:    requester.ID,
		RequesterRole:    requester.Role,
		RequesterIsSuper: requester.IsSuperuser,
	}
	require.NoError(t, e.reports.Create(context.Background(), r))
	return r
}

func (e *env) reload(t *testing.T, id uuid.UUID) *model.Report {
	t.Helper()
	r, err := e.reports.FindByID(context.Background(), policy.All(), id)
	require.NoError(t, err)
	return r
}

func TestRender_ProductionReportUsesRequesterScope(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	supReport := e.report(t, e.sup, model.ReportProduction)
	doc, err := e.sources.build(ctx, e.reload(t, supReport.ID))
	require.NoError(t, err)
	assert.Len(t, doc.Rows, 2, "supervisor sees only the project they manage")
	for _, row := range doc.Rows {
		assert.Equal(t, "Mina Norte", row[1])
	}
	assert.Contains(t, doc.Summary, "Total ton: 5.00")

	adminReport := e.report(t, e.admin, model.ReportProduction)
	doc, err = e.sources.build(ctx, e.reload(t, adminReport.ID))
	require.NoError(t, err)
	assert.Len(t, doc.Rows, 3)
	assert.Contains(t, doc.Summary, "Total ton: 7.50")
}

func TestRender_PersonnelAndProjectDocuments(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	doc, err := e.sources.build(ctx, e.reload(t, e.report(t, e.sup, model.ReportPersonnel).ID))
	require.NoError(t, err)
	assert.Len(t, doc.Rows, 2)
	assert.Equal(t, []string{"Registros: 2", "Entradas: 1", "Salidas: 1"}, doc.Summary)

	r := e.report(t, e.admin, model.ReportProject)
	r.ProjectID = &e.theirs.ID
	require.NoError(t, e.reports.Update(ctx, r))
	doc, err = e.sources.build(ctx, e.reload(t, r.ID))
	require.NoError(t, err)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "Mina Sur", doc.Rows[0][0])
	assert.Equal(t, "1", doc.Rows[0][5])
	assert.Contains(t, doc.Subtitle, "Mina Sur")
}

func TestRender_MarksReadyAndQueuesEmail(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	r := e.report(t, e.sup, model.ReportProduction)

	require.NoError(t, e.worker(t).Render(ctx, r.ID))

	got := e.reload(t, r.ID)
	assert.Equal(t, model.ReportReady, got.Status)
	require.NotNil(t, got.FilePath)
	assert.Equal(t, filepath.Join(e.storage, "reporte_production_"+r.ID.String()+".pdf"), *got.FilePath)
	data, err := os.ReadFile(*got.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))

	require.Len(t, e.mail.jobs, 1)
	assert.Equal(t, "sup@koal.test", e.mail.jobs[0].ToEmail)
	assert.Equal(t, *got.FilePath, e.mail.jobs[0].PDFPath)

	// A duplicate job for a finished report does nothing.
	require.NoError(t, e.worker(t).Render(ctx, r.ID))
	assert.Len(t, e.mail.jobs, 1)
}

func TestRender_FailureSchedulesRetryThenGivesUp(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	e.storage = blocker
	w := e.worker(t)
	r := e.report(t, e.sup, model.ReportProduction)

	require.Error(t, w.Render(ctx, r.ID))
	got := e.reload(t, r.ID)
	assert.Equal(t, model.ReportPending, got.Status)
	assert.Equal(t, 1, got.RetryCount)
	require.NotNil(t, got.NextRetryAt)
	assert.True(t, got.NextRetryAt.Equal(testNow.Add(30*time.Second)))
	require.NotNil(t, got.LastError)

	require.NoError(t, e.db.Model(&model.Report{}).Where("id = ?", r.ID).Update("retry_count", MaxReportRetries-1).Error)
	require.Error(t, w.Render(ctx, r.ID))
	got = e.reload(t, r.ID)
	assert.Equal(t, model.ReportFailed, got.Status)
	assert.Nil(t, got.NextRetryAt)

	n, err := e.dlq.Len(ctx, QueueReports)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	entries, err := e.dlq.Peek(ctx, QueueReports, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, MaxReportRetries, entries[0].Attempts)
	assert.JSONEq(t, `{"report_id":"`+r.ID.String()+`"}`, string(entries[0].Payload))
	assert.Empty(t, e.mail.jobs)
}

func TestRender_UnknownTypeFailsImmediately(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	r := e.report(t, e.admin, model.ReportProduction)
	r.Type = "weekly"
	require.NoError(t, e.reports.Update(ctx, r))

	err := e.worker(t).Render(ctx, r.ID)
	assert.ErrorIs(t, err, errPermanent)
	got := e.reload(t, r.ID)
	assert.Equal(t, model.ReportFailed, got.Status)
	assert.Equal(t, 1, got.RetryCount)
}

func TestRender_DeadLetterFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	deadRDB, mr := testutil.NewRedis(t)
	mr.Close()
	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })

	r := e.report(t, e.admin, model.ReportProduction)
	r.Type = "weekly"
	require.NoError(t, e.reports.Update(ctx, r))
	w := NewReportWorker(ReportWorkerConfig{
		Reports: e.reports, Sources: e.sources, DLQ: NewDeadLetters(deadRDB),
		StoragePath: e.storage, Now: func() time.Time { return testNow },
	})

	assert.ErrorIs(t, w.Render(ctx, r.ID), errPermanent)
	assert.Equal(t, model.ReportFailed, e.reload(t, r.ID).Status)
	assert.Contains(t, logs.String(), "could not push to dead letter queue")
	assert.Contains(t, logs.String(), r.ID.String())
}

func TestProcessRetries_PicksOnlyDueReports(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	due := e.report(t, e.admin, model.ReportPersonnel)
	later := e.report(t, e.admin, model.ReportPersonnel)
	queued := e.report(t, e.admin, model.ReportPersonnel)

	past, future := testNow.Add(-time.Minute), testNow.Add(time.Hour)
	due.NextRetryAt, later.NextRetryAt = &past, &future
	require.NoError(t, e.reports.Update(ctx, due))
	require.NoError(t, e.reports.Update(ctx, later))

	n := processRetries(ctx, RetryCronConfig{Reports: e.reports, Worker: e.worker(t), Now: func() time.Time { return testNow }})
	assert.Equal(t, 1, n)
	assert.Equal(t, model.ReportReady, e.reload(t, due.ID).Status)
	assert.Equal(t, model.ReportPending, e.reload(t, later.ID).Status)
	assert.Equal(t, model.ReportPending, e.reload(t, queued.ID).Status)
}

func TestPool_RendersQueuedReport(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := e.report(t, e.admin, model.ReportProject)
	require.NoError(t, NewDispatcher(e.rdb).EnqueueReport(ctx, r.ID))
	NewPool(e.rdb, e.worker(t), nil).Start(ctx, 1)

	assert.Eventually(t, func() bool {
		got, err := e.reports.FindByID(context.Background(), policy.All(), r.ID)
		return err == nil && got.Status == model.ReportReady
	}, 5*time.Second, 20*time.Millisecond)
}

type fakeSender struct {
	calls int
	err   error
}

func (s *fakeSender) Send(_, _, _, _ string) error {
	s.calls++
	return s.err
}

func emailJob(t *testing.T, to string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(EmailJobPayload{ToEmail: to, Subject: "s", Body: "b"})
	require.NoError(t, err)
	return raw
}

func TestEmailWorker(t *testing.T) {
	ctx := context.Background()
	rdb, _ := testutil.NewRedis(t)
	dlq := NewDeadLetters(rdb)
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Name: "smtp", FailureThreshold: 10})

	t.Run("sends once", func(t *testing.T) {
		s := &fakeSender{}
		NewEmailWorker(s, cb, dlq).Process(ctx, emailJob(t, "a@koal.test"))
		assert.Equal(t, 1, s.calls)
	})

	t.Run("nil sender drops the job", func(t *testing.T) {
		NewEmailWorker(nil, cb, dlq).Process(ctx, emailJob(t, "a@koal.test"))
		n, err := dlq.Len(ctx, QueueEmail)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("retries then parks in DLQ", func(t *testing.T) {
		s := &fakeSender{err: errors.New("relay down")}
		w := NewEmailWorker(s, cb, dlq)
		w.retryBase = time.Millisecond
		w.Process(ctx, emailJob(t, "a@koal.test"))
		assert.Equal(t, emailAttempts, s.calls)
		n, err := dlq.Len(ctx, QueueEmail)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestComputeRetryBackoff(t *testing.T) {
	assert.Equal(t, 30*time.Second, computeRetryBackoff(1))
	assert.Equal(t, time.Minute, computeRetryBackoff(2))
	assert.Equal(t, 4*time.Minute, computeRetryBackoff(4))
	assert.Equal(t, 30*time.Minute, computeRetryBackoff(12))
	assert.Equal(t, 30*time.Minute, computeRetryBackoff(80))
}
