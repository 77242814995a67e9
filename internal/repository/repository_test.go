package repository

import (
	"context"
	"testing"
	"time"

	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newProject(t *testing.T, db *gorm.DB, name string, manager *model.User) *model.Project {
	t.Helper()
	p := &model.Project{Name: name, Location: "Mina Norte", StartDate: day("2024-01-10"), Status: model.DefaultProjectStatus}
	if manager != nil {
		p.ManagerID = &manager.ID
	}
	require.NoError(t, NewProjectRepository(db).Create(context.Background(), p))
	return p
}

func newRecord(t *testing.T, db *gorm.DB, project *model.Project, employee *model.User, date string) *model.ProductionRecord {
	t.Helper()
	r := &model.ProductionRecord{
		ProjectID: project.ID, Date: day(date), MaterialType: "Carbon",
		Quantity: decimal.NewFromInt(12), Unit: "ton",
	}
	if employee != nil {
		r.EmployeeID = &employee.ID
	}
	require.NoError(t, NewProductionRecordRepository(db).Create(context.Background(), r))
	return r
}

func newWorkFront(t *testing.T, db *gorm.DB, project *model.Project, supervisor *model.User) *model.WorkFront {
	t.Helper()
	w := &model.WorkFront{
		Name: "Frente 1", Location: "Nivel 3", Status: model.WorkFrontActive,
		StartDate: day("2024-02-01"), EstimatedEndDate: day("2024-06-01"), Workers: 4,
	}
	if project != nil {
		w.ProjectID = &project.ID
	}
	if supervisor != nil {
		w.SupervisorID = &supervisor.ID
	}
	require.NoError(t, NewWorkFrontRepository(db).Create(context.Background(), w))
	return w
}

func visible(t *testing.T, res policy.Resource, u *model.User) policy.Scope {
	t.Helper()
	s, err := policy.Visible(res, testutil.CallerOf(u))
	require.NoError(t, err)
	return s
}

func recordIDs(rows []model.ProductionRecord) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestProductionScope_ManagerEmployeeAndOutsider(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	a := testutil.NewUser(t, db, "a_sup", model.RoleSupervisor)
	b := testutil.NewUser(t, db, "b_emp", model.RoleEmployee)
	c := testutil.NewUser(t, db, "c_sup", model.RoleSupervisor)
	p1 := newProject(t, db, "P1", a)
	p2 := newProject(t, db, "P2", c)
	r1 := newRecord(t, db, p1, b, "2024-03-01")
	r2 := newRecord(t, db, p2, nil, "2024-03-02")

	repo := NewProductionRecordRepository(db)

	rows, err := repo.List(ctx, visible(t, policy.ProductionRecords, a), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{r1.ID}, recordIDs(rows))
	require.NotNil(t, rows[0].Project)
	assert.Equal(t, "P1", rows[0].Project.Name)
	require.NotNil(t, rows[0].Employee)
	assert.Equal(t, "b_emp", rows[0].Employee.Username)

	rows, err = repo.List(ctx, visible(t, policy.ProductionRecords, b), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{r1.ID}, recordIDs(rows))

	rows, err = repo.List(ctx, visible(t, policy.ProductionRecords, c), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{r2.ID}, recordIDs(rows))

	_, err = repo.FindByID(ctx, visible(t, policy.ProductionRecords, c), r1.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductionScope_UnionIsDeduplicated(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	sup := testutil.NewUser(t, db, "sup", model.RoleSupervisor)
	other := testutil.NewUser(t, db, "other", model.RoleSupervisor)

	managed := newProject(t, db, "Managed", sup)
	viaFront := newProject(t, db, "ViaFront", other)
	unrelated := newProject(t, db, "Unrelated", other)

	// managed is reachable both ways; it must not duplicate rows.
	newWorkFront(t, db, managed, sup)
	newWorkFront(t, db, viaFront, sup)
	newWorkFront(t, db, nil, sup)

	rm := newRecord(t, db, managed, nil, "2024-03-03")
	rv := newRecord(t, db, viaFront, nil, "2024-03-02")
	newRecord(t, db, unrelated, nil, "2024-03-01")

	rows, err := NewProductionRecordRepository(db).List(ctx, visible(t, policy.ProductionRecords, sup), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{rm.ID, rv.ID}, recordIDs(rows))
}

func TestProductionList_Filter(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	admin := testutil.NewUser(t, db, "admin", model.RoleAdmin)
	p1 := newProject(t, db, "P1", nil)
	p2 := newProject(t, db, "P2", nil)
	newRecord(t, db, p1, nil, "2024-03-01")
	mid := newRecord(t, db, p1, nil, "2024-03-05")
	newRecord(t, db, p2, nil, "2024-03-05")
	newRecord(t, db, p1, nil, "2024-03-09")

	from, to := day("2024-03-02"), day("2024-03-05")
	rows, err := NewProductionRecordRepository(db).List(ctx, visible(t, policy.ProductionRecords, admin),
		Filter{ProjectID: &p1.ID, From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{mid.ID}, recordIDs(rows))
}

func TestUserScope(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	admin := testutil.NewUser(t, db, "admin", model.RoleAdmin)
	sup := testutil.NewUser(t, db, "sup", model.RoleSupervisor)
	emp := testutil.NewUser(t, db, "emp", model.RoleEmployee)
	repo := NewUserRepository(db)

	names := func(u *model.User) []string {
		rows, err := repo.List(ctx, visible(t, policy.Users, u), Filter{})
		require.NoError(t, err)
		out := []string{}
		for _, r := range rows {
			out = append(out, r.Username)
		}
		return out
	}

	assert.Equal(t, []string{"admin", "emp", "sup"}, names(admin))
	assert.Equal(t, []string{"emp", "sup"}, names(sup))
	assert.Equal(t, []string{"emp"}, names(emp))

	_, err := repo.FindByID(ctx, visible(t, policy.Users, sup), admin.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestScopeNone_ReturnsEmptyList(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	sup := testutil.NewUser(t, db, "sup", model.RoleSupervisor)
	emp := testutil.NewUser(t, db, "emp", model.RoleEmployee)
	p := newProject(t, db, "P1", sup)
	newWorkFront(t, db, p, sup)

	projects, err := NewProjectRepository(db).List(ctx, visible(t, policy.Projects, emp), Filter{})
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.NotNil(t, projects)

	fronts, err := NewWorkFrontRepository(db).List(ctx, visible(t, policy.WorkFronts, emp), Filter{})
	require.NoError(t, err)
	assert.Empty(t, fronts)
}

func TestUserTaken(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	u := testutil.NewUser(t, db, "jperez", model.RoleEmployee)
	repo := NewUserRepository(db)

	taken, err := repo.Taken(ctx, "username", "jperez", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.Taken(ctx, "username", "jperez", u.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a user never conflicts with itself")
}

func TestUserDelete_DetachesWeakReferences(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	admin := testutil.NewUser(t, db, "admin", model.RoleAdmin)
	sup := testutil.NewUser(t, db, "sup", model.RoleSupervisor)
	emp := testutil.NewUser(t, db, "emp", model.RoleEmployee)

	p := newProject(t, db, "P1", sup)
	w := newWorkFront(t, db, p, sup)
	r := newRecord(t, db, p, emp, "2024-03-01")
	logRepo := NewAccessLogRepository(db)
	require.NoError(t, logRepo.Create(ctx, &model.AccessLog{
		EmployeeID: emp.ID, AccessType: model.AccessEntry, Timestamp: time.Now().UTC(), Area: "Bocamina",
	}))

	users := NewUserRepository(db)
	require.NoError(t, users.Delete(ctx, sup.ID))
	require.NoError(t, users.Delete(ctx, emp.ID))

	all := visible(t, policy.Projects, admin)
	gotP, err := NewProjectRepository(db).FindByID(ctx, all, p.ID)
	require.NoError(t, err, "deleting a manager must not delete the project")
	assert.Nil(t, gotP.ManagerID)

	gotW, err := NewWorkFrontRepository(db).FindByID(ctx, all, w.ID)
	require.NoError(t, err)
	assert.Nil(t, gotW.SupervisorID)

	gotR, err := NewProductionRecordRepository(db).FindByID(ctx, all, r.ID)
	require.NoError(t, err)
	assert.Nil(t, gotR.EmployeeID)

	logs, err := logRepo.List(ctx, all, Filter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestProjectDelete_CascadesRecords(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	admin := testutil.NewUser(t, db, "admin", model.RoleAdmin)
	p := newProject(t, db, "P1", nil)
	w := newWorkFront(t, db, p, nil)
	newRecord(t, db, p, nil, "2024-03-01")

	require.NoError(t, NewProjectRepository(db).Delete(ctx, p.ID))

	all := visible(t, policy.Projects, admin)
	records, err := NewProductionRecordRepository(db).List(ctx, all, Filter{})
	require.NoError(t, err)
	assert.Empty(t, records)

	gotW, err := NewWorkFrontRepository(db).FindByID(ctx, all, w.ID)
	require.NoError(t, err)
	assert.Nil(t, gotW.ProjectID)
}

func TestAccessLogUpdate_KeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	emp := testutil.NewUser(t, db, "emp", model.RoleEmployee)
	repo := NewAccessLogRepository(db)

	stamped := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)
	log := &model.AccessLog{EmployeeID: emp.ID, AccessType: model.AccessEntry, Timestamp: stamped, Area: "Bocamina"}
	require.NoError(t, repo.Create(ctx, log))

	log.Timestamp = stamped.Add(48 * time.Hour)
	log.Area = "Taller"
	require.NoError(t, repo.Update(ctx, log))

	got, err := repo.FindByID(ctx, visible(t, policy.AccessLogs, emp), log.ID)
	require.NoError(t, err)
	assert.Equal(t, "Taller", got.Area)
	assert.True(t, stamped.Equal(got.Timestamp), "timestamp changed to %s", got.Timestamp)
}

func TestReportListDueRetries(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	sup := testutil.NewUser(t, db, "sup", model.RoleSupervisor)
	repo := NewReportRepository(db)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mk := func(title string, status model.ReportStatus, next *time.Time) *model.Report {
		r := &model.Report{Title: title, Type: model.ReportProduction, Status: status, NextRetryAt: next,
			RequestedByID: sup.ID, RequesterRole: sup.Role}
		require.NoError(t, repo.Create(ctx, r))
		return r
	}
	past, future := now.Add(-time.Minute), now.Add(time.Minute)
	due := mk("due", model.ReportPending, &past)
	mk("later", model.ReportPending, &future)
	mk("fresh", model.ReportPending, nil)
	mk("failed", model.ReportFailed, &past)

	rows, err := repo.ListDueRetries(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, due.ID, rows[0].ID)
}

func TestWorkFrontScope_SupervisorSeesOnlyOwnFronts(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	sup := testutil.NewUser(t, db, "sup", model.RoleSupervisor)
	sup2 := testutil.NewUser(t, db, "sup2", model.RoleSupervisor)
	admin := testutil.NewUser(t, db, "admin", model.RoleAdmin)
	p := newProject(t, db, "P1", sup)
	mine := newWorkFront(t, db, p, sup)
	theirs := newWorkFront(t, db, p, sup2)
	repo := NewWorkFrontRepository(db)

	rows, err := repo.List(ctx, visible(t, policy.WorkFronts, sup), Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].ID)

	_, err = repo.FindByID(ctx, visible(t, policy.WorkFronts, sup), theirs.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	rows, err = repo.List(ctx, visible(t, policy.WorkFronts, admin), Filter{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFindReachable(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	sup := testutil.NewUser(t, db, "sup", model.RoleSupervisor)
	sup2 := testutil.NewUser(t, db, "sup2", model.RoleSupervisor)
	managed := newProject(t, db, "Gestionado", sup)
	viaFront := newProject(t, db, "Por frente", sup2)
	other := newProject(t, db, "Ajeno", sup2)
	newWorkFront(t, db, viaFront, sup)
	repo := NewProjectRepository(db)
	scope := policy.Scope{Kind: policy.ScopeOwnedOrManaged, CallerID: sup.ID}

	for _, p := range []*model.Project{managed, viaFront} {
		got, err := repo.FindReachable(ctx, scope, p.ID)
		require.NoError(t, err, p.Name)
		assert.Equal(t, p.ID, got.ID)
	}
	_, err := repo.FindReachable(ctx, scope, other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindReachable(ctx, policy.All(), other.ID)
	assert.NoError(t, err)
	_, err = repo.FindReachable(ctx, policy.Scope{Kind: policy.ScopeNone}, managed.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
