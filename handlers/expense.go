package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/charettep/splitup/database"
	"github.com/charettep/splitup/models"
	"github.com/charettep/splitup/services"
	"github.com/charettep/splitup/utils"
)

// POST /api/settlements/:id/expenses
func CreateExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid settlement ID")
		return
	}

	settlement, err := loadSettlement(settlementID)
	if err != nil {
		utils.NotFound(c, "Settlement not found")
		return
	}
	if _, ok := settlement.PartyOf(userID); !ok {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	amount, err := utils.ParseAmount(req.TotalAmount)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	expenseDate := time.Now().Truncate(24 * time.Hour)
	if req.ExpenseDate != "" {
		parsed, err := utils.ParseDate(req.ExpenseDate)
		if err != nil {
			utils.BadRequest(c, "Invalid expense_date, expected YYYY-MM-DD")
			return
		}
		expenseDate = parsed
	}

	manual1, manual2, err := parseManualSplit(req.ManualPerson1Pct, req.ManualPerson2Pct)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	expense := models.Expense{
		SettlementID:     settlementID,
		Description:      req.Description,
		Category:         req.Category,
		TotalAmount:      amount,
		PaidBy:           models.Party(req.PaidBy),
		ExpenseDate:      expenseDate,
		ManualPerson1Pct: manual1,
		ManualPerson2Pct: manual2,
		ReceiptURL:       req.ReceiptURL,
		Notes:            req.Notes,
		CreatedBy:        userID,
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		utils.InternalError(c, "Failed to create expense")
		return
	}

	if err := recalculate(c.Request.Context(), settlementID); err != nil {
		utils.InternalError(c, "Failed to recalculate ledger")
		return
	}

	// Log activity
	var actor models.User
	database.DB.First(&actor, "id = ?", userID)
	database.DB.Create(&models.Activity{
		SettlementID: settlementID,
		UserID:       userID,
		Type:         "expense_added",
		ReferenceID:  expense.ID,
		Description:  fmt.Sprintf("%s added \"%s\" (%s)", actor.Name, expense.Description, utils.FormatMoney(expense.TotalAmount, settlement.Currency)),
	})

	// Notify the party who now owes their share
	notifyExpenseDebtor(expense, settlement, actor)

	utils.SuccessResponse(c, http.StatusCreated, "Expense added", expense)
}

// GET /api/settlements/:id/expenses
func GetSettlementExpenses(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid settlement ID")
		return
	}

	if !isParticipant(settlementID, userID) {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var expenses []models.Expense
	database.DB.Where("settlement_id = ?", settlementID).
		Order("expense_date DESC, created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&expenses)

	utils.SuccessResponse(c, http.StatusOK, "", expenses)
}

// GET /api/expenses/:id
func GetExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, "id = ?", expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if !isParticipant(expense.SettlementID, userID) {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", expense)
}

// PUT /api/expenses/:id
func UpdateExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, "id = ?", expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if !isParticipant(expense.SettlementID, userID) {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	// Only the creator may edit their expense
	if expense.CreatedBy != userID {
		utils.Unauthorized(c, "Only the expense creator can edit it")
		return
	}

	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.TotalAmount != "" {
		amount, err := utils.ParseAmount(req.TotalAmount)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		updates["total_amount"] = amount
	}
	if req.PaidBy != "" {
		paidBy, err := models.ParseParty(req.PaidBy)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		updates["paid_by"] = paidBy
	}
	if req.ExpenseDate != "" {
		parsed, err := utils.ParseDate(req.ExpenseDate)
		if err != nil {
			utils.BadRequest(c, "Invalid expense_date, expected YYYY-MM-DD")
			return
		}
		updates["expense_date"] = parsed
	}
	if req.ReceiptURL != "" {
		updates["receipt_url"] = req.ReceiptURL
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}
	if req.ManualPerson1Pct == "null" && req.ManualPerson2Pct == "null" {
		updates["manual_person1_pct"] = nil
		updates["manual_person2_pct"] = nil
	} else if req.ManualPerson1Pct != "" || req.ManualPerson2Pct != "" {
		manual1, manual2, err := parseManualSplit(req.ManualPerson1Pct, req.ManualPerson2Pct)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		updates["manual_person1_pct"] = manual1
		updates["manual_person2_pct"] = manual2
	}

	database.DB.Model(&expense).Updates(updates)
	database.DB.First(&expense, "id = ?", expenseID)

	if err := recalculate(c.Request.Context(), expense.SettlementID); err != nil {
		utils.InternalError(c, "Failed to recalculate ledger")
		return
	}

	var editor models.User
	database.DB.First(&editor, "id = ?", userID)
	database.DB.Create(&models.Activity{
		SettlementID: expense.SettlementID,
		UserID:       userID,
		Type:         "expense_updated",
		ReferenceID:  expense.ID,
		Description:  fmt.Sprintf("%s updated \"%s\"", editor.Name, expense.Description),
	})

	utils.SuccessResponse(c, http.StatusOK, "Expense updated", expense)
}

// DELETE /api/expenses/:id
func DeleteExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, "id = ?", expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if !isParticipant(expense.SettlementID, userID) {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	if expense.CreatedBy != userID {
		utils.Unauthorized(c, "Only the expense creator can delete it")
		return
	}

	var deleter models.User
	database.DB.First(&deleter, "id = ?", userID)
	database.DB.Create(&models.Activity{
		SettlementID: expense.SettlementID,
		UserID:       userID,
		Type:         "expense_deleted",
		Description:  fmt.Sprintf("%s deleted \"%s\"", deleter.Name, expense.Description),
	})

	database.DB.Delete(&expense)

	// The rebuild sweeps the deleted expense's derived line
	if err := recalculate(c.Request.Context(), expense.SettlementID); err != nil {
		utils.InternalError(c, "Failed to recalculate ledger")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expense deleted", nil)
}

// parseManualSplit enforces the all-or-nothing rule on manual overrides:
// the engine only honors them when both sides are present.
func parseManualSplit(p1, p2 string) (decimal.NullDecimal, decimal.NullDecimal, error) {
	var none decimal.NullDecimal
	if p1 == "" && p2 == "" {
		return none, none, nil
	}
	if p1 == "" || p2 == "" {
		return none, none, fmt.Errorf("manual split requires both person1 and person2 percentages")
	}
	d1, err := utils.ParsePercent(p1)
	if err != nil {
		return none, none, err
	}
	d2, err := utils.ParsePercent(p2)
	if err != nil {
		return none, none, err
	}
	return decimal.NewNullDecimal(d1), decimal.NewNullDecimal(d2), nil
}

// notifyExpenseDebtor looks up the freshly derived line and notifies the
// party who owes it.
func notifyExpenseDebtor(expense models.Expense, settlement *models.Settlement, actor models.User) {
	debtor := expense.PaidBy.Other()
	debtorUser := userOf(settlement, debtor)
	if debtorUser == nil {
		return // second seat unclaimed, nobody to notify
	}

	var line models.OwedLine
	err := database.DB.Where("source_type = ? AND source_id = ?", models.SourceExpense, expense.ID).
		First(&line).Error
	if err != nil {
		return
	}

	go services.GetNotificationService().NotifyExpenseAdded(expense, *settlement, actor, *debtorUser, line.Amount())
}
