package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/charettep/splitup/database"
	"github.com/charettep/splitup/models"
	"github.com/charettep/splitup/utils"
)

// GET /api/settlements/:id/activity
func GetSettlementActivity(c *gin.Context) {
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

	var activities []models.Activity
	database.DB.Where("settlement_id = ?", settlementID).
		Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&activities)

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}
