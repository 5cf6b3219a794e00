package report

import (
	"context"
	"smart_condominium/internal/domain"
	"smart_condominium/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFinancial_FiltersAndTotals(t *testing.T) {
	db := testutil.NewDB(t)
	u101 := testutil.CreateUnit(t, db, "101")
	u102 := testutil.CreateUnit(t, db, "102")
	testutil.CreateExpense(t, db, u101, "2025-02", "900.00", "2025-02-10")
	testutil.CreateExpense(t, db, u101, "2025-03", "1000.00", "2025-03-01")
	testutil.CreateExpense(t, db, u102, "2025-03", "1200.50", "2025-03-05")

	r, err := BuildFinancial(context.Background(), db, "2025-03-01", "2025-03-31")
	require.NoError(t, err)

	require.Len(t, r.Rows, 2)
	assert.Equal(t, "101", r.Rows[0].Unit)
	assert.Equal(t, "2025-03-01", r.Rows[0].Date)
	assert.Equal(t, "102", r.Rows[1].Unit)
	assert.Equal(t, "2200.5", r.Total.String())
	assert.Equal(t, domain.ExpenseStatusPending, r.Rows[1].Status)
}

func TestBuildFinancial_OpenRange(t *testing.T) {
	db := testutil.NewDB(t)
	unit := testutil.CreateUnit(t, db, "201")
	testutil.CreateExpense(t, db, unit, "2025-01", "10", "2025-01-10")
	testutil.CreateExpense(t, db, unit, "2025-02", "20", "2025-02-10")

	r, err := BuildFinancial(context.Background(), db, "", "")
	require.NoError(t, err)
	assert.Len(t, r.Rows, 2)
	assert.Equal(t, "30", r.Total.String())
}

func TestFinancial_HTML(t *testing.T) {
	db := testutil.NewDB(t)
	unit := testutil.CreateUnit(t, db, "101")
	testutil.CreateExpense(t, db, unit, "2025-03", "1000", "2025-03-01")

	r, err := BuildFinancial(context.Background(), db, "2025-03-01", "")
	require.NoError(t, err)
	html, err := r.HTML()
	require.NoError(t, err)

	assert.Contains(t, html, "Reporte Financiero")
	assert.Contains(t, html, "<td>101</td>")
	assert.Contains(t, html, "$1000.00")
	assert.Contains(t, html, "Expensa 2025-03")
	assert.Contains(t, html, "2025-03-01 - ")
}

func TestChromedpRenderer_RejectsEmptyHTML(t *testing.T) {
	r := &ChromedpRenderer{timeout: defaultRenderTimeout}
	_, err := r.RenderPDF(context.Background(), "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}
