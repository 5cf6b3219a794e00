// Package report builds the financial PDF report.
package report

import (
	"bytes"
	"context"
	"html/template"
	"smart_condominium/internal/domain"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Row is one expense line of the report
type Row struct {
	Date    string
	Unit    string
	Amount  decimal.Decimal
	Concept string
	Status  string
}

// Financial is the data behind the financial report
type Financial struct {
	StartDate   string
	EndDate     string
	Rows        []Row
	Total       decimal.Decimal
	GeneratedAt time.Time
}

// BuildFinancial collects the expenses whose due date falls in [start, end].
// Empty bounds are open.
func BuildFinancial(ctx context.Context, db *gorm.DB, start, end string) (*Financial, error) {
	q := db.WithContext(ctx).Preload("Unit").Order("due_date asc, id asc")
	if start != "" {
		q = q.Where("due_date >= ?", start)
	}
	if end != "" {
		q = q.Where("due_date <= ?", end)
	}
	var expenses []domain.Expense
	if err := q.Find(&expenses).Error; err != nil {
		return nil, err
	}
	r := &Financial{StartDate: start, EndDate: end, GeneratedAt: time.Now(), Total: decimal.Zero}
	for _, e := range expenses {
		concept := e.Description
		if concept == "" {
			concept = "Expensa " + e.Period
		}
		r.Rows = append(r.Rows, Row{
			Date:    e.DueDate,
			Unit:    e.Unit.Number,
			Amount:  e.Amount,
			Concept: concept,
			Status:  e.Status,
		})
		r.Total = r.Total.Add(e.Amount)
	}
	return r, nil
}

var financialTemplate = template.Must(template.New("financial").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; }
h1 { text-align: center; font-size: 18px; margin-bottom: 30px; }
p.range { text-align: center; color: #555; }
table { width: 100%; border-collapse: collapse; }
th { background: grey; color: whitesmoke; font-weight: bold; padding-bottom: 12px; }
td { background: beige; }
th, td { border: 1px solid black; text-align: center; padding: 4px; }
tr.total td { font-weight: bold; }
</style>
</head>
<body>
<h1>Reporte Financiero</h1>
{{if or .StartDate .EndDate}}<p class="range">{{.StartDate}} - {{.EndDate}}</p>{{end}}
<table>
<tr><th>Fecha</th><th>Unidad</th><th>Monto</th><th>Concepto</th><th>Estado</th></tr>
{{range .Rows}}<tr><td>{{.Date}}</td><td>{{.Unit}}</td><td>{{money .Amount}}</td><td>{{.Concept}}</td><td>{{.Status}}</td></tr>
{{end}}<tr class="total"><td colspan="2">Total</td><td>{{money .Total}}</td><td colspan="2"></td></tr>
</table>
<p class="range">Generado {{.GeneratedAt.Format "2006-01-02 15:04"}}</p>
</body>
</html>`))

// HTML renders the report as an HTML document
func (f *Financial) HTML() (string, error) {
	var buf bytes.Buffer
	if err := financialTemplate.Execute(&buf, f); err != nil {
		return "", err
	}
	return buf.String(), nil
}
