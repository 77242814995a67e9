package service

import (
	"context"
	"testing"
	"time"

	"koalgroup/internal/dto"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/testutil"
	"koalgroup/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T, f *fixture, rotate bool) (AuthService, *token.Issuer) {
	t.Helper()
	rdb, _ := testutil.NewRedis(t)
	issuer := token.NewIssuer("service-test-secret", 15*time.Minute, time.Hour, token.NewRedisDenylist(rdb))
	return NewAuthService(f.users, issuer, rotate), issuer
}

func TestLogin_IssuesTokensWithRoleClaims(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth, issuer := newAuth(t, f, true)

	resp, err := auth.Login(ctx, dto.LoginRequest{Username: "sup", Password: testutil.Password})
	require.NoError(t, err)
	assert.Equal(t, "SUPERVISOR", resp.Role)
	assert.Equal(t, "sup", resp.Username)
	assert.Equal(t, resp.Access, resp.AccessToken)
	assert.Equal(t, 900, resp.ExpiresIn)

	claims, err := issuer.Parse(resp.AccessToken, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, f.sup.ID.String(), claims.Subject)
	assert.Equal(t, "SUPERVISOR", claims.Role)
	assert.False(t, claims.IsSuperuser)
}

func TestAuthenticate_Failures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth, _ := newAuth(t, f, true)

	_, err := auth.Authenticate(ctx, "sup", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Authenticate(ctx, "ghost", testutil.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.db.Model(&model.User{}).Where("id = ?", f.emp.ID).Update("is_active", false).Error)
	_, err = auth.Authenticate(ctx, "emp", testutil.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_RotationRejectsReuse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth, _ := newAuth(t, f, true)

	login, err := auth.Login(ctx, dto.LoginRequest{Username: "emp", Password: testutil.Password})
	require.NoError(t, err)

	refreshed, err := auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Refresh(ctx, refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_WithoutRotation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth, _ := newAuth(t, f, false)

	login, err := auth.Login(ctx, dto.LoginRequest{Username: "emp", Password: testutil.Password})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		resp, err := auth.Refresh(ctx, login.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Empty(t, resp.RefreshToken)
	}

	_, err = auth.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "an access token is not a refresh token")
}

func TestBlacklist(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth, _ := newAuth(t, f, false)

	login, err := auth.Login(ctx, dto.LoginRequest{Username: "emp", Password: testutil.Password})
	require.NoError(t, err)
	require.NoError(t, auth.Blacklist(ctx, login.RefreshToken))

	_, err = auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_PasswordMismatchPersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth, _ := newAuth(t, f, true)

	_, err := auth.Register(ctx, dto.RegisterRequest{
		Username: "nuevo", Email: "nuevo@koal.test", Password: "clave-segura-1", Password2: "clave-segura-2",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")

	_, err = f.users.FindByUsername(ctx, "nuevo")
	assert.ErrorIs(t, fromDB(err), ErrNotFound)
}

func TestRegister_CreatesEmployeeByDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth, _ := newAuth(t, f, true)

	resp, err := auth.Register(ctx, dto.RegisterRequest{
		Username: "nuevo", Email: "nuevo@koal.test", Password: "clave-segura-1", Password2: "clave-segura-1",
		IDNumber: ptr("CC-77"),
	})
	require.NoError(t, err)
	assert.Equal(t, "EMPLOYEE", resp.Role)
	assert.True(t, resp.IsActive)

	_, err = auth.Authenticate(ctx, "nuevo", "clave-segura-1")
	require.NoError(t, err)

	_, err = auth.Register(ctx, dto.RegisterRequest{
		Username: "nuevo", Email: "otro@koal.test", Password: "clave-segura-1", Password2: "clave-segura-1",
		IDNumber: ptr("CC-77"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "id_number")
}

func TestUserService_Visibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewUserService(f.users)

	list, err := svc.List(ctx, caller(f.sup))
	require.NoError(t, err)
	names := []string{}
	for _, u := range list {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"emp", "sup", "sup2"}, names)

	_, err = svc.Get(ctx, caller(f.emp), f.sup.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, caller(f.sup), f.admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_WriteRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewUserService(f.users)

	// Visible but not writable.
	_, err := svc.Update(ctx, caller(f.sup), f.emp.ID, dto.UpdateUserRequest{FirstName: ptr("X")})
	assert.ErrorIs(t, err, ErrForbidden)

	resp, err := svc.Update(ctx, caller(f.emp), f.emp.ID, dto.UpdateUserRequest{FirstName: ptr("Ana"), Phone: ptr("3001234567")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", resp.FirstName)

	_, err = svc.Update(ctx, caller(f.emp), f.emp.ID, dto.UpdateUserRequest{Role: ptr("ADMIN")})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Update(ctx, caller(f.emp), f.emp.ID, dto.UpdateUserRequest{IsSuperuser: ptr(true)})
	assert.ErrorIs(t, err, ErrForbidden)

	// Restating the current role is not a change.
	_, err = svc.Update(ctx, caller(f.emp), f.emp.ID, dto.UpdateUserRequest{Role: ptr("EMPLOYEE")})
	assert.NoError(t, err)

	resp, err = svc.Update(ctx, caller(f.admin), f.emp.ID, dto.UpdateUserRequest{Role: ptr("SUPERVISOR")})
	require.NoError(t, err)
	assert.Equal(t, "SUPERVISOR", resp.Role)

	_, err = svc.Create(ctx, caller(f.sup), dto.CreateUserRequest{Username: "x", Password: "clave-segura-1"})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, caller(f.emp), f.emp.ID), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, caller(f.emp), f.sup.ID), ErrNotFound)
}

func TestUserService_SuperuserActsAsAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root := testutil.NewSuperuser(t, f.db, "root", model.RoleEmployee)
	svc := NewUserService(f.users)

	list, err := svc.List(ctx, caller(root))
	require.NoError(t, err)
	assert.Len(t, list, 5)

	resp, err := svc.Create(ctx, caller(root), dto.CreateUserRequest{
		Username: "operador", Password: "clave-segura-1", Role: "SUPERVISOR", FingerprintID: ptr("FP-001"),
	})
	require.NoError(t, err)
	assert.Equal(t, "SUPERVISOR", resp.Role)

	_, err = svc.Create(ctx, caller(root), dto.CreateUserRequest{Username: "otro", Password: "clave-segura-1", FingerprintID: ptr("FP-001")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "fingerprint_id")

	require.NoError(t, svc.Delete(ctx, caller(root), f.emp.ID))
	_, err = f.users.FindByID(ctx, policy.All(), f.emp.ID)
	assert.ErrorIs(t, fromDB(err), ErrNotFound)
}
