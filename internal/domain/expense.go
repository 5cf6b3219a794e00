package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense statuses
const (
	ExpenseStatusPending = "PENDIENTE"
	ExpenseStatusPaid    = "PAGADA"
	ExpenseStatusOverdue = "VENCIDA"
)

// Expense Model
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UnitID      uint            `gorm:"index;not null" json:"-"`
	Unit        Unit            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"unit"`
	Period      string          `gorm:"size:20;not null" json:"period"` // e.g. 2025-03
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `gorm:"size:200" json:"description"`
	DueDate     string          `gorm:"size:10;index;not null" json:"due_date"`
	Status      string          `gorm:"size:20;not null;default:PENDIENTE" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}
