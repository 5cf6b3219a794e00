// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"smart_condominium/internal/db"
	"smart_condominium/internal/domain"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain-text password of every fixture user
const Password = "secret123"

// NewDB opens a migrated in-memory SQLite database. A single connection keeps every
// query on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// CreateUser inserts a user of the given type with Password as password
func CreateUser(t *testing.T, gdb *gorm.DB, username, userType string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{
		Username: username,
		Email:    username + "@condo.test",
		Password: string(hash),
		DNI:      "DNI-" + username,
		UserType: userType,
		IsActive: true,
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

// CreateUnit inserts a unit with the given residents
func CreateUnit(t *testing.T, gdb *gorm.DB, number string, residents ...*domain.User) *domain.Unit {
	t.Helper()
	unit := &domain.Unit{Number: number, Floor: 1}
	for _, r := range residents {
		unit.Residents = append(unit.Residents, *r)
	}
	require.NoError(t, gdb.Create(unit).Error)
	return unit
}

// CreateExpense inserts a pending expense for a unit
func CreateExpense(t *testing.T, gdb *gorm.DB, unit *domain.Unit, period, amount, dueDate string) *domain.Expense {
	t.Helper()
	e := &domain.Expense{
		UnitID:      unit.ID,
		Period:      period,
		Amount:      decimal.RequireFromString(amount),
		Description: "Expensa " + period,
		DueDate:     dueDate,
		Status:      domain.ExpenseStatusPending,
	}
	require.NoError(t, gdb.Create(e).Error)
	return e
}
