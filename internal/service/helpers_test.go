package service

import (
	"context"
	"testing"
	"time"

	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"
	"koalgroup/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	users      repository.UserRepository
	projects   repository.ProjectRepository
	production repository.ProductionRecordRepository
	accessLogs repository.AccessLogRepository
	gas        repository.GasRecordRepository
	fronts     repository.WorkFrontRepository
	inventory  repository.InventoryItemRepository
	tools      repository.ToolRepository
	reports    repository.ReportRepository

	admin, sup, sup2, emp *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:         db,
		users:      repository.NewUserRepository(db),
		projects:   repository.NewProjectRepository(db),
		production: repository.NewProductionRecordRepository(db),
		accessLogs: repository.NewAccessLogRepository(db),
		gas:        repository.NewGasRecordRepository(db),
		fronts:     repository.NewWorkFrontRepository(db),
		inventory:  repository.NewInventoryItemRepository(db),
		tools:      repository.NewToolRepository(db),
		reports:    repository.NewReportRepository(db),
		admin:      testutil.NewUser(t, db, "admin", model.RoleAdmin),
		sup:        testutil.NewUser(t, db, "sup", model.RoleSupervisor),
		sup2:       testutil.NewUser(t, db, "sup2", model.RoleSupervisor),
		emp:        testutil.NewUser(t, db, "emp", model.RoleEmployee),
	}
}

func (f *fixture) project(t *testing.T, name string, manager *model.User) *model.Project {
	t.Helper()
	p := &model.Project{Name: name, Location: "Mina", StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Status: "Activo"}
	if manager != nil {
		p.ManagerID = &manager.ID
	}
	require.NoError(t, f.projects.Create(context.Background(), p))
	return p
}

func (f *fixture) record(t *testing.T, p *model.Project, employee *model.User) *model.ProductionRecord {
	t.Helper()
	r := &model.ProductionRecord{ProjectID: p.ID, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		MaterialType: "Carbon", Quantity: decimal.NewFromInt(5), Unit: "ton"}
	if employee != nil {
		r.EmployeeID = &employee.ID
	}
	require.NoError(t, f.production.Create(context.Background(), r))
	return r
}

func caller(u *model.User) policy.Caller { return testutil.CallerOf(u) }

func ptr[T any](v T) *T { return &v }

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newClock() *clock { return &clock{t: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)} }

type fakeQueue struct {
	ids []uuid.UUID
	err error
}

func (q *fakeQueue) EnqueueReport(_ context.Context, id uuid.UUID) error {
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, id)
	return nil
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
