package api

import (
	"fmt"
	"net/http"
	"smart_condominium/internal/domain"
	"smart_condominium/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitors_EntryExitFlow(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	alice := testutil.CreateUser(t, env.db, "alice", domain.UserTypeResident)
	guard := testutil.CreateUser(t, env.db, "guard", domain.UserTypeSecurity)
	unit := testutil.CreateUnit(t, env.db, "101", alice)

	w := env.do(http.MethodPost, "/api/visitors", alice, map[string]any{
		"name": "Carlos", "dni": "555", "visited_unit": unit.ID, "scheduled_at": "2025-05-10T15:00:00Z", "purpose": "Visita",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	v := decode[domain.Visitor](t, w)
	assert.Equal(t, domain.VisitorStatusCreated, v.Status)
	require.NotNil(t, v.QRCode)

	// The gate looks the visit up by its QR code
	w = env.do(http.MethodGet, "/api/visitors?qr_code="+*v.QRCode, guard, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[listResponse[domain.Visitor]](t, w)
	require.Len(t, page.Items, 1)
	assert.Equal(t, v.ID, page.Items[0].ID)

	entry := fmt.Sprintf("/api/visitors/%d/entry", v.ID)
	exit := fmt.Sprintf("/api/visitors/%d/exit", v.ID)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, entry, alice, nil).Code)
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, exit, guard, nil).Code, "exit before entry")

	w = env.do(http.MethodPost, entry, guard, nil)
	require.Equal(t, http.StatusOK, w.Code)
	entered := decode[domain.Visitor](t, w)
	assert.Equal(t, domain.VisitorStatusValidated, entered.Status)
	assert.NotNil(t, entered.EntryTime)
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, entry, guard, nil).Code, "double entry")

	w = env.do(http.MethodPost, exit, guard, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode[domain.Visitor](t, w).ExitTime)
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, exit, guard, nil).Code, "double exit")
}

func TestVisitors_DeniedVisitCannotEnter(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	guard := testutil.CreateUser(t, env.db, "guard", domain.UserTypeSecurity)
	unit := testutil.CreateUnit(t, env.db, "101")

	w := env.do(http.MethodPost, "/api/visitors", guard, map[string]any{
		"name": "Eva", "dni": "777", "visited_unit": unit.ID, "scheduled_at": "2025-05-10T15:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	v := decode[domain.Visitor](t, w)

	w = env.do(http.MethodPut, fmt.Sprintf("/api/visitors/%d", v.ID), guard, map[string]any{
		"name": "Eva", "dni": "777", "visited_unit": unit.ID, "scheduled_at": "2025-05-10T15:00:00Z", "status": "DENEGADA",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPost, fmt.Sprintf("/api/visitors/%d/entry", v.ID), guard, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVisitors_ListFilters(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	guard := testutil.CreateUser(t, env.db, "guard", domain.UserTypeSecurity)
	unit := testutil.CreateUnit(t, env.db, "101")

	for i, day := range []string{"2025-05-09", "2025-05-10", "2025-05-11"} {
		w := env.do(http.MethodPost, "/api/visitors", guard, map[string]any{
			"name": "V", "dni": fmt.Sprintf("D%d", i), "visited_unit": unit.ID, "scheduled_at": day + "T12:00:00Z",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(http.MethodGet, "/api/visitors?start_date=2025-05-10&end_date=2025-05-10", guard, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[listResponse[domain.Visitor]](t, w).Total)

	w = env.do(http.MethodGet, "/api/visitors?start_date=10-05-2025", guard, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/visitors", guard, map[string]any{
		"name": "Dup", "dni": "D0", "visited_unit": unit.ID, "scheduled_at": "2025-05-12T12:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate DNI")
}
