// Package testutil builds throwaway databases, redis servers and users for
// package tests.
package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"koalgroup/internal/infra"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain-text password of every user made by NewUser.
const Password = "secreto123"

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database with every table migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("sqlite://file:koal_test_%d_%s?mode=memory&cache=shared", dbSeq.Add(1), uuid.NewString()[:8])
	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewRedis starts a miniredis server that lives for the duration of t.
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

var (
	hashOnce sync.Once
	hashed   []byte
)

// NewUser inserts an active user with the given role and Password.
func NewUser(t testing.TB, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()
	hashOnce.Do(func() {
		hashed, _ = bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	})
	u := &model.User{
		Username:     username,
		Email:        username + "@koal.test",
		PasswordHash: string(hashed),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// NewSuperuser inserts an active superuser carrying role.
func NewSuperuser(t testing.TB, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()
	u := NewUser(t, db, username, role)
	require.NoError(t, db.Model(u).Updates(map[string]any{"is_superuser": true, "is_staff": true}).Error)
	u.IsSuperuser, u.IsStaff = true, true
	return u
}

// CallerOf is the policy identity of u.
func CallerOf(u *model.User) policy.Caller {
	return policy.Caller{ID: u.ID, Username: u.Username, Role: u.Role, IsSuperuser: u.IsSuperuser}
}
