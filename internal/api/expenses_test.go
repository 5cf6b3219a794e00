package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"smart_condominium/internal/domain"
	"smart_condominium/internal/testutil"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenses_ResidentsSeeOnlyTheirUnits(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	admin := testutil.CreateUser(t, env.db, "admin", domain.UserTypeAdmin)
	alice := testutil.CreateUser(t, env.db, "alice", domain.UserTypeResident)
	bob := testutil.CreateUser(t, env.db, "bob", domain.UserTypeResident)
	aliceUnit := testutil.CreateUnit(t, env.db, "101", alice)
	bobUnit := testutil.CreateUnit(t, env.db, "102", bob)
	own := testutil.CreateExpense(t, env.db, aliceUnit, "2025-03", "120.50", "2025-03-31")
	other := testutil.CreateExpense(t, env.db, bobUnit, "2025-03", "99.00", "2025-03-31")

	w := env.do(http.MethodGet, "/api/expenses", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[listResponse[domain.Expense]](t, w)
	require.Len(t, page.Items, 1)
	assert.Equal(t, own.ID, page.Items[0].ID)
	assert.Equal(t, "101", page.Items[0].Unit.Number)
	assert.True(t, decimal.RequireFromString("120.50").Equal(page.Items[0].Amount))

	w = env.do(http.MethodGet, fmt.Sprintf("/api/expenses/%d", other.ID), alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/expenses", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode[listResponse[domain.Expense]](t, w).Total)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/expenses?unit_id=%d", bobUnit.ID), admin, nil)
	assert.EqualValues(t, 1, decode[listResponse[domain.Expense]](t, w).Total)
}

func TestExpenses_CreateNotifiesResidents(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	admin := testutil.CreateUser(t, env.db, "admin", domain.UserTypeAdmin)
	alice := testutil.CreateUser(t, env.db, "alice", domain.UserTypeResident)
	bob := testutil.CreateUser(t, env.db, "bob", domain.UserTypeResident)
	unit := testutil.CreateUnit(t, env.db, "101", alice, bob)

	w := env.do(http.MethodPost, "/api/expenses", admin, map[string]any{
		"unit_id": unit.ID, "period": "2025-04", "amount": "250.00", "due_date": "2025-04-30", "description": "Cuota",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	e := decode[domain.Expense](t, w)
	assert.Equal(t, domain.ExpenseStatusPending, e.Status)

	var notes []domain.Notification
	require.NoError(t, env.db.Order("user_id").Find(&notes).Error)
	require.Len(t, notes, 2)
	assert.Equal(t, alice.ID, notes[0].UserID)
	assert.Equal(t, bob.ID, notes[1].UserID)
	assert.Equal(t, domain.NotificationPayment, notes[0].NotificationType)
	var payload map[string]uint
	require.NoError(t, json.Unmarshal(notes[0].Payload, &payload))
	assert.Equal(t, e.ID, payload["expense_id"])

	// Residents read their own notification
	w = env.do(http.MethodGet, "/api/notifications", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[listResponse[domain.Notification]](t, w).Total)
}

func TestExpenses_Validation(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	admin := testutil.CreateUser(t, env.db, "admin", domain.UserTypeAdmin)
	alice := testutil.CreateUser(t, env.db, "alice", domain.UserTypeResident)
	unit := testutil.CreateUnit(t, env.db, "101")

	tests := []struct {
		name string
		as   *domain.User
		body map[string]any
		want int
	}{
		{"resident cannot bill", alice, map[string]any{"unit_id": unit.ID, "period": "2025-04", "amount": "10", "due_date": "2025-04-30"}, http.StatusForbidden},
		{"zero amount", admin, map[string]any{"unit_id": unit.ID, "period": "2025-04", "amount": "0", "due_date": "2025-04-30"}, http.StatusBadRequest},
		{"bad period", admin, map[string]any{"unit_id": unit.ID, "period": "April", "amount": "10", "due_date": "2025-04-30"}, http.StatusBadRequest},
		{"bad status", admin, map[string]any{"unit_id": unit.ID, "period": "2025-04", "amount": "10", "due_date": "2025-04-30", "status": "LOST"}, http.StatusBadRequest},
		{"unknown unit", admin, map[string]any{"unit_id": 9999, "period": "2025-04", "amount": "10", "due_date": "2025-04-30"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/expenses", tt.as, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestNotifications_ReadOwnOnly(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	admin := testutil.CreateUser(t, env.db, "admin", domain.UserTypeAdmin)
	alice := testutil.CreateUser(t, env.db, "alice", domain.UserTypeResident)
	bob := testutil.CreateUser(t, env.db, "bob", domain.UserTypeResident)

	w := env.do(http.MethodPost, "/api/notifications", admin, map[string]any{
		"user_id": alice.ID, "notification_type": "AVISO", "title": "Corte de agua", "message": "Mañana de 9 a 12",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	n := decode[domain.Notification](t, w)
	assert.Equal(t, domain.NotificationStatusSent, n.Status)

	path := fmt.Sprintf("/api/notifications/%d/read", n.ID)
	w = env.do(http.MethodPatch, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPatch, path, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.NotificationStatusRead, decode[domain.Notification](t, w).Status)

	w = env.do(http.MethodGet, "/api/notifications?status="+domain.NotificationStatusRead, alice, nil)
	assert.EqualValues(t, 1, decode[listResponse[domain.Notification]](t, w).Total)
	w = env.do(http.MethodGet, "/api/notifications", bob, nil)
	assert.EqualValues(t, 0, decode[listResponse[domain.Notification]](t, w).Total)
}
