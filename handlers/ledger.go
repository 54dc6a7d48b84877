package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/charettep/splitup/database"
	"github.com/charettep/splitup/models"
	"github.com/charettep/splitup/services"
	"github.com/charettep/splitup/utils"
)

const ledgerCacheTTL = 5 * time.Minute

func ledgerCacheKey(settlementID uuid.UUID) string {
	return "splitup:ledger:" + settlementID.String()
}

// GET /api/settlements/:id/ledger — all derived lines plus the net summary
func GetLedger(c *gin.Context) {
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

	// Serve from cache when possible
	if database.Redis != nil {
		cached, err := database.Redis.Get(c.Request.Context(), ledgerCacheKey(settlementID)).Result()
		if err == nil {
			var response models.LedgerResponse
			if json.Unmarshal([]byte(cached), &response) == nil {
				utils.SuccessResponse(c, http.StatusOK, "", response)
				return
			}
		}
	}

	lines, err := Engine.Lines(c.Request.Context(), settlementID)
	if err != nil {
		utils.InternalError(c, "Failed to load ledger")
		return
	}
	summary, err := Engine.Summary(c.Request.Context(), settlementID)
	if err != nil {
		utils.InternalError(c, "Failed to compute summary")
		return
	}

	response := models.LedgerResponse{
		SettlementID: settlementID,
		Lines:        lines,
		Summary:      *summary,
	}

	if database.Redis != nil {
		if payload, err := json.Marshal(response); err == nil {
			database.Redis.Set(c.Request.Context(), ledgerCacheKey(settlementID), payload, ledgerCacheTTL)
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", response)
}

// PUT /api/owed-lines/:id/paid — the one in-place mutation the engine allows
func SetPaidStatus(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid owed line ID")
		return
	}

	var req models.SetPaidStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var existing models.OwedLine
	if err := database.DB.First(&existing, "id = ?", lineID).Error; err != nil {
		utils.NotFound(c, "Owed line not found")
		return
	}

	settlement, err := loadSettlement(existing.SettlementID)
	if err != nil {
		utils.NotFound(c, "Settlement not found")
		return
	}
	if _, ok := settlement.PartyOf(userID); !ok {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	line, err := Engine.SetPaidStatus(c.Request.Context(), lineID, *req.Paid)
	if err != nil {
		utils.InternalError(c, "Failed to update paid status")
		return
	}

	invalidateLedgerCache(c.Request.Context(), existing.SettlementID)

	var actor models.User
	database.DB.First(&actor, "id = ?", userID)
	status := "unpaid"
	if *req.Paid {
		status = "paid"
	}
	database.DB.Create(&models.Activity{
		SettlementID: existing.SettlementID,
		UserID:       userID,
		Type:         "debt_paid",
		ReferenceID:  lineID,
		Description:  fmt.Sprintf("%s marked \"%s\" as %s", actor.Name, existing.Description, status),
	})

	if *req.Paid {
		creditor := userOf(settlement, line.OwedTo())
		if creditor != nil && creditor.ID != userID {
			go services.GetNotificationService().NotifyDebtPaid(*line, *settlement, actor, *creditor)
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "Paid status updated", line)
}

// invalidateLedgerCache drops the cached read view after any recompute or
// paid-status change.
func invalidateLedgerCache(ctx context.Context, settlementID uuid.UUID) {
	if database.Redis == nil {
		return
	}
	database.Redis.Del(ctx, ledgerCacheKey(settlementID))
}
