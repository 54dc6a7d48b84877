package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/charettep/splitup/database"
	"github.com/charettep/splitup/models"
	"github.com/charettep/splitup/utils"
)

const sharesWarning = "person1 and person2 shares do not sum to 100"

// POST /api/settlements/:id/periods
func CreatePeriod(c *gin.Context) {
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

	var req models.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		utils.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := utils.ParseDate(req.EndDate)
		if err != nil {
			utils.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		if parsed.Before(startDate) {
			utils.BadRequest(c, "end_date must not be before start_date")
			return
		}
		endDate = &parsed
	}

	p1Pct, err := utils.ParsePercent(req.Person1SharePct)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	p2Pct, err := utils.ParsePercent(req.Person2SharePct)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	period := models.SplitPeriod{
		SettlementID:    settlementID,
		StartDate:       startDate,
		EndDate:         endDate,
		Person1SharePct: p1Pct,
		Person2SharePct: p2Pct,
	}

	if err := database.DB.Create(&period).Error; err != nil {
		utils.InternalError(c, "Failed to create split period")
		return
	}

	if err := recalculate(c.Request.Context(), settlementID); err != nil {
		utils.InternalError(c, "Failed to recalculate ledger")
		return
	}

	logPeriodActivity(settlementID, userID, period.ID)

	// Shares not summing to 100 is tolerated, only flagged.
	if !period.SharesSumTo100() {
		utils.SuccessResponseWithWarning(c, http.StatusCreated, "Split period created", sharesWarning, period)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Split period created", period)
}

// GET /api/settlements/:id/periods
func GetPeriods(c *gin.Context) {
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

	var periods []models.SplitPeriod
	database.DB.Where("settlement_id = ?", settlementID).
		Order("start_date ASC").
		Find(&periods)

	utils.SuccessResponse(c, http.StatusOK, "", periods)
}

// PUT /api/periods/:id
func UpdatePeriod(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid period ID")
		return
	}

	var period models.SplitPeriod
	if err := database.DB.First(&period, "id = ?", periodID).Error; err != nil {
		utils.NotFound(c, "Split period not found")
		return
	}

	if !isParticipant(period.SettlementID, userID) {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	var req models.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.StartDate != "" {
		startDate, err := utils.ParseDate(req.StartDate)
		if err != nil {
			utils.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		updates["start_date"] = startDate
	}
	if req.EndDate == "null" {
		updates["end_date"] = nil
	} else if req.EndDate != "" {
		endDate, err := utils.ParseDate(req.EndDate)
		if err != nil {
			utils.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		updates["end_date"] = endDate
	}
	if req.Person1SharePct != "" {
		p1Pct, err := utils.ParsePercent(req.Person1SharePct)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		updates["person1_share_pct"] = p1Pct
	}
	if req.Person2SharePct != "" {
		p2Pct, err := utils.ParsePercent(req.Person2SharePct)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		updates["person2_share_pct"] = p2Pct
	}

	database.DB.Model(&period).Updates(updates)
	database.DB.First(&period, "id = ?", periodID)

	if err := recalculate(c.Request.Context(), period.SettlementID); err != nil {
		utils.InternalError(c, "Failed to recalculate ledger")
		return
	}

	logPeriodActivity(period.SettlementID, userID, period.ID)

	if !period.SharesSumTo100() {
		utils.SuccessResponseWithWarning(c, http.StatusOK, "Split period updated", sharesWarning, period)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Split period updated", period)
}

// DELETE /api/periods/:id
func DeletePeriod(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid period ID")
		return
	}

	var period models.SplitPeriod
	if err := database.DB.First(&period, "id = ?", periodID).Error; err != nil {
		utils.NotFound(c, "Split period not found")
		return
	}

	if !isParticipant(period.SettlementID, userID) {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	database.DB.Delete(&period)

	if err := recalculate(c.Request.Context(), period.SettlementID); err != nil {
		utils.InternalError(c, "Failed to recalculate ledger")
		return
	}

	logPeriodActivity(period.SettlementID, userID, period.ID)

	utils.SuccessResponse(c, http.StatusOK, "Split period deleted", nil)
}

func logPeriodActivity(settlementID, userID, periodID uuid.UUID) {
	var actor models.User
	database.DB.First(&actor, "id = ?", userID)
	database.DB.Create(&models.Activity{
		SettlementID: settlementID,
		UserID:       userID,
		Type:         "period_changed",
		ReferenceID:  periodID,
		Description:  actor.Name + " changed the ownership-share periods",
	})
}
