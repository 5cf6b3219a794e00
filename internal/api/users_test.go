package api

import (
	"fmt"
	"net/http"
	"smart_condominium/internal/domain"
	"smart_condominium/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUsers_Permissions(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	admin := testutil.CreateUser(t, env.db, "admin", domain.UserTypeAdmin)
	alice := testutil.CreateUser(t, env.db, "alice", domain.UserTypeResident)
	bob := testutil.CreateUser(t, env.db, "bob", domain.UserTypeResident)

	tests := []struct {
		name   string
		method string
		path   string
		as     *domain.User
		body   any
		want   int
	}{
		{"admin lists users", http.MethodGet, "/api/users", admin, nil, http.StatusOK},
		{"resident cannot list users", http.MethodGet, "/api/users", alice, nil, http.StatusForbidden},
		{"resident reads self", http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), alice, nil, http.StatusOK},
		{"resident cannot read others", http.MethodGet, fmt.Sprintf("/api/users/%d", bob.ID), alice, nil, http.StatusForbidden},
		{"admin reads anyone", http.MethodGet, fmt.Sprintf("/api/users/%d", bob.ID), admin, nil, http.StatusOK},
		{"unknown user", http.MethodGet, "/api/users/9999", admin, nil, http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/users/abc", admin, nil, http.StatusBadRequest},
		{"resident cannot disable self", http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), alice, map[string]any{"is_active": false}, http.StatusForbidden},
		{"resident cannot change role", http.MethodPut, fmt.Sprintf("/api/users/%d/role", alice.ID), alice, map[string]any{"user_type": "admin"}, http.StatusForbidden},
		{"unknown role", http.MethodPut, fmt.Sprintf("/api/users/%d/role", alice.ID), admin, map[string]any{"user_type": "owner"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, tt.as, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestUsers_ListFilterAndPaging(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	admin := testutil.CreateUser(t, env.db, "admin", domain.UserTypeAdmin)
	testutil.CreateUser(t, env.db, "guard", domain.UserTypeSecurity)
	for i := 0; i < 3; i++ {
		testutil.CreateUser(t, env.db, fmt.Sprintf("res%d", i), domain.UserTypeResident)
	}

	w := env.do(http.MethodGet, "/api/users?user_type=resident&page_size=2", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[listResponse[domain.User]](t, w)
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	for _, u := range page.Items {
		assert.Equal(t, domain.UserTypeResident, u.UserType)
	}
}

func TestUsers_UpdateProfileAndRole(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	admin := testutil.CreateUser(t, env.db, "admin", domain.UserTypeAdmin)
	alice := testutil.CreateUser(t, env.db, "alice", domain.UserTypeResident)

	w := env.do(http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), alice, map[string]any{
		"first_name": "Alice", "phone_number": "+59170000000",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.User](t, w)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "+59170000000", updated.PhoneNumber)

	w = env.do(http.MethodPut, fmt.Sprintf("/api/users/%d/role", alice.ID), admin, map[string]any{"user_type": "security"})
	require.Equal(t, http.StatusOK, w.Code)
	var stored domain.User
	require.NoError(t, env.db.First(&stored, alice.ID).Error)
	assert.Equal(t, domain.UserTypeSecurity, stored.UserType)

	// A disabled account is locked out of authenticated routes
	w = env.do(http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), admin, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUsers_DeleteClearsUnitMembership(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	alice := testutil.CreateUser(t, env.db, "alice", domain.UserTypeResident)
	unit := testutil.CreateUnit(t, env.db, "101", alice)

	w := env.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", alice.ID), alice, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var residents int64
	require.NoError(t, env.db.Table("unit_residents").Where("unit_id = ?", unit.ID).Count(&residents).Error)
	assert.Zero(t, residents)
	assert.ErrorIs(t, env.db.First(&domain.User{}, alice.ID).Error, gorm.ErrRecordNotFound)
}

func TestUsers_ChangesRefreshCachedUnitList(t *testing.T) {
	env := newTestEnv(t, envOptions{redis: true})
	admin := testutil.CreateUser(t, env.db, "admin", domain.UserTypeAdmin)
	alice := testutil.CreateUser(t, env.db, "alice", domain.UserTypeResident)
	testutil.CreateUnit(t, env.db, "101", alice)

	type unitPage struct {
		Items  []domain.Unit `json:"items"`
		Cached bool          `json:"cached"`
	}
	units := func() unitPage {
		w := env.do(http.MethodGet, "/api/units", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		return decode[unitPage](t, w)
	}

	require.False(t, units().Cached)
	require.True(t, units().Cached)

	w := env.do(http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), alice, map[string]any{"first_name": "Alicia"})
	require.Equal(t, http.StatusOK, w.Code)
	page := units()
	assert.False(t, page.Cached)
	require.Len(t, page.Items[0].Residents, 1)
	assert.Equal(t, "Alicia", page.Items[0].Residents[0].FirstName)

	units() // Warm the cache again
	w = env.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", alice.ID), admin, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	page = units()
	assert.False(t, page.Cached)
	assert.Empty(t, page.Items[0].Residents)
}
