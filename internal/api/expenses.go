package api

import (
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Current user and validation

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact money amounts
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// ExpenseRequest is the body of expense create and update
type ExpenseRequest struct {
	UnitID      uint            `json:"unit_id" binding:"required"`                                // Billed unit
	Period      string          `json:"period" binding:"required,period"`                          // YYYY-MM
	Amount      decimal.Decimal `json:"amount"`                                                    // Must be positive
	Description string          `json:"description" binding:"max=200"`                             // Concept
	DueDate     string          `json:"due_date" binding:"required,date"`                          // YYYY-MM-DD
	Status      string          `json:"status" binding:"omitempty,oneof=PENDIENTE PAGADA VENCIDA"` // Defaults to PENDIENTE
}

// scopeExpenses restricts non-admins to the expenses of the units they live in
func scopeExpenses(c *gin.Context, query *gorm.DB) *gorm.DB {
	user := middleware.CurrentUser(c)
	if user.IsAdmin() {
		return query
	}
	return query.Where("unit_id IN (?)", query.Session(&gorm.Session{NewDB: true}).
		Table("unit_residents").Select("unit_id").Where("user_id = ?", user.ID))
}

// bindExpense binds an expense body and checks the unit exists
func bindExpense(c *gin.Context, db *gorm.DB) (*ExpenseRequest, *domain.Unit, bool) {
	var req ExpenseRequest // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return nil, nil, false
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": []middleware.ValidationDetail{
			{Field: "amount", Message: "Must be greater than 0"},
		}})
		return nil, nil, false
	}
	if req.Status == "" {
		req.Status = domain.ExpenseStatusPending
	}
	var unit domain.Unit
	if !findOr404(c, db, &unit, req.UnitID, "Unit") {
		return nil, nil, false
	}
	return &req, &unit, true
}

// ListExpensesHandler returns the expenses visible to the user. Filters: status, period, unit_id.
func ListExpensesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := scopeExpenses(c, db.Model(&domain.Expense{})).Order("due_date desc, id desc")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by status
		}
		if period := c.Query("period"); period != "" {
			query = query.Where("period = ?", period) // Filter by period
		}
		if unitID := c.Query("unit_id"); unitID != "" {
			query = query.Where("unit_id = ?", unitID) // Filter by unit
		}
		resp, ok := paginate[domain.Expense](c, query, "expenses", "Unit")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetExpenseHandler returns one expense visible to the user
func GetExpenseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var e domain.Expense
		if !findOr404(c, scopeExpenses(c, db.Model(&domain.Expense{})).Preload("Unit"), &e, id, "Expense") {
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

// CreateExpenseHandler bills a unit and notifies its residents (admin only)
func CreateExpenseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, unit, ok := bindExpense(c, db)
		if !ok {
			return
		}
		e := domain.Expense{
			UnitID:      unit.ID,         // Billed unit
			Period:      req.Period,      // Billing period
			Amount:      req.Amount,      // Amount due
			Description: req.Description, // Concept
			DueDate:     req.DueDate,     // Due date
			Status:      req.Status,      // Payment status
		}
		if err := db.WithContext(c.Request.Context()).Omit("Unit").Create(&e).Error; err != nil {
			saveError(c, err, "Expense")
			return
		}
		e.Unit = *unit
		notify(c.Request.Context(), db, unitResidentIDs(c.Request.Context(), db, unit.ID),
			domain.NotificationPayment,
			"Nueva expensa "+e.Period,
			"Se registró una expensa de $"+e.Amount.StringFixed(2)+" con vencimiento "+e.DueDate,
			map[string]any{"expense_id": e.ID, "unit_id": unit.ID})
		logrus.WithFields(logrus.Fields{
			"expense_id": e.ID,                    // New expense
			"unit_id":    unit.ID,                 // Billed unit
			"amount":     e.Amount.StringFixed(2), // Amount due
		}).Info("Expense created")
		c.JSON(http.StatusCreated, e)
	}
}

// UpdateExpenseHandler replaces an expense (admin only)
func UpdateExpenseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var e domain.Expense
		if !findOr404(c, db, &e, id, "Expense") {
			return
		}
		req, unit, ok := bindExpense(c, db)
		if !ok {
			return
		}
		e.UnitID = unit.ID
		e.Period = req.Period
		e.Amount = req.Amount
		e.Description = req.Description
		e.DueDate = req.DueDate
		e.Status = req.Status
		if err := db.WithContext(c.Request.Context()).Omit("Unit").Save(&e).Error; err != nil {
			saveError(c, err, "Expense")
			return
		}
		e.Unit = *unit
		c.JSON(http.StatusOK, e)
	}
}

// DeleteExpenseHandler removes an expense (admin only)
func DeleteExpenseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		res := db.WithContext(c.Request.Context()).Delete(&domain.Expense{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
