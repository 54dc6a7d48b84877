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

// POST /api/settlements/:id/assets
func CreateAsset(c *gin.Context) {
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

	var req models.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	purchaseDate, err := utils.ParseDate(req.PurchaseDate)
	if err != nil {
		utils.BadRequest(c, "Invalid purchase_date, expected YYYY-MM-DD")
		return
	}
	purchasePrice, err := utils.ParseAmount(req.PurchasePrice)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	manual1, manual2, err := parseManualSplit(req.ManualOriginalPerson1Pct, req.ManualOriginalPerson2Pct)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	asset := models.Asset{
		SettlementID:             settlementID,
		Name:                     req.Name,
		Category:                 req.Category,
		PurchaseDate:             purchaseDate,
		PurchasePrice:            purchasePrice,
		PaidBy:                   models.Party(req.PaidBy),
		ManualOriginalPerson1Pct: manual1,
		ManualOriginalPerson2Pct: manual2,
		Notes:                    req.Notes,
		CreatedBy:                userID,
	}

	if err := database.DB.Create(&asset).Error; err != nil {
		utils.InternalError(c, "Failed to create asset")
		return
	}

	// An asset without a valuation has no ledger presence; the rebuild is
	// still triggered so the pipeline stays uniform.
	if err := recalculate(c.Request.Context(), settlementID); err != nil {
		utils.InternalError(c, "Failed to recalculate ledger")
		return
	}

	var actor models.User
	database.DB.First(&actor, "id = ?", userID)
	database.DB.Create(&models.Activity{
		SettlementID: settlementID,
		UserID:       userID,
		Type:         "asset_added",
		ReferenceID:  asset.ID,
		Description:  fmt.Sprintf("%s added asset \"%s\" (%s)", actor.Name, asset.Name, utils.FormatMoney(asset.PurchasePrice, settlement.Currency)),
	})

	utils.SuccessResponse(c, http.StatusCreated, "Asset added", asset)
}

// GET /api/settlements/:id/assets
func GetSettlementAssets(c *gin.Context) {
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

	var assets []models.Asset
	database.DB.Where("settlement_id = ?", settlementID).
		Order("purchase_date DESC, created_at DESC").
		Find(&assets)

	utils.SuccessResponse(c, http.StatusOK, "", assets)
}

// GET /api/assets/:id
func GetAsset(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid asset ID")
		return
	}

	var asset models.Asset
	if err := database.DB.First(&asset, "id = ?", assetID).Error; err != nil {
		utils.NotFound(c, "Asset not found")
		return
	}

	if !isParticipant(asset.SettlementID, userID) {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", asset)
}

// PUT /api/assets/:id
func UpdateAsset(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid asset ID")
		return
	}

	var asset models.Asset
	if err := database.DB.First(&asset, "id = ?", assetID).Error; err != nil {
		utils.NotFound(c, "Asset not found")
		return
	}

	if !isParticipant(asset.SettlementID, userID) {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	if asset.CreatedBy != userID {
		utils.Unauthorized(c, "Only the asset creator can edit it")
		return
	}

	var req models.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.PurchaseDate != "" {
		parsed, err := utils.ParseDate(req.PurchaseDate)
		if err != nil {
			utils.BadRequest(c, "Invalid purchase_date, expected YYYY-MM-DD")
			return
		}
		updates["purchase_date"] = parsed
	}
	if req.PurchasePrice != "" {
		price, err := utils.ParseAmount(req.PurchasePrice)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		updates["purchase_price"] = price
	}
	if req.PaidBy != "" {
		paidBy, err := models.ParseParty(req.PaidBy)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		updates["paid_by"] = paidBy
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}
	if req.ManualOriginalPerson1Pct == "null" && req.ManualOriginalPerson2Pct == "null" {
		updates["manual_original_person1_pct"] = nil
		updates["manual_original_person2_pct"] = nil
	} else if req.ManualOriginalPerson1Pct != "" || req.ManualOriginalPerson2Pct != "" {
		manual1, manual2, err := parseManualSplit(req.ManualOriginalPerson1Pct, req.ManualOriginalPerson2Pct)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		updates["manual_original_person1_pct"] = manual1
		updates["manual_original_person2_pct"] = manual2
	}

	database.DB.Model(&asset).Updates(updates)
	database.DB.First(&asset, "id = ?", assetID)

	if err := recalculate(c.Request.Context(), asset.SettlementID); err != nil {
		utils.InternalError(c, "Failed to recalculate ledger")
		return
	}

	var editor models.User
	database.DB.First(&editor, "id = ?", userID)
	database.DB.Create(&models.Activity{
		SettlementID: asset.SettlementID,
		UserID:       userID,
		Type:         "asset_updated",
		ReferenceID:  asset.ID,
		Description:  fmt.Sprintf("%s updated asset \"%s\"", editor.Name, asset.Name),
	})

	utils.SuccessResponse(c, http.StatusOK, "Asset updated", asset)
}

// PUT /api/assets/:id/valuation — resolves the asset for settlement
func SetAssetValuation(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid asset ID")
		return
	}

	var asset models.Asset
	if err := database.DB.First(&asset, "id = ?", assetID).Error; err != nil {
		utils.NotFound(c, "Asset not found")
		return
	}

	settlement, err := loadSettlement(asset.SettlementID)
	if err != nil {
		utils.NotFound(c, "Settlement not found")
		return
	}
	if _, ok := settlement.PartyOf(userID); !ok {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	var req models.SetValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	value, err := utils.ParseAmount(req.CurrentEstimatedValue)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	valuationDate := time.Now().Truncate(24 * time.Hour)
	if req.ValuationDate != "" {
		parsed, err := utils.ParseDate(req.ValuationDate)
		if err != nil {
			utils.BadRequest(c, "Invalid valuation_date, expected YYYY-MM-DD")
			return
		}
		valuationDate = parsed
	}

	keptBy := models.Party(req.KeptBy)

	database.DB.Model(&asset).Updates(map[string]interface{}{
		"current_estimated_value": decimal.NewNullDecimal(value),
		"valuation_date":          valuationDate,
		"kept_by":                 keptBy,
	})
	database.DB.First(&asset, "id = ?", assetID)

	if err := recalculate(c.Request.Context(), asset.SettlementID); err != nil {
		utils.InternalError(c, "Failed to recalculate ledger")
		return
	}

	var actor models.User
	database.DB.First(&actor, "id = ?", userID)
	database.DB.Create(&models.Activity{
		SettlementID: asset.SettlementID,
		UserID:       userID,
		Type:         "asset_valued",
		ReferenceID:  asset.ID,
		Description: fmt.Sprintf("%s valued \"%s\" at %s, kept by %s", actor.Name, asset.Name,
			utils.FormatMoney(value, settlement.Currency), settlement.NameOf(keptBy)),
	})

	notifyAssetBuyback(asset, settlement)

	utils.SuccessResponse(c, http.StatusOK, "Asset valuation recorded", asset)
}

// DELETE /api/assets/:id
func DeleteAsset(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid asset ID")
		return
	}

	var asset models.Asset
	if err := database.DB.First(&asset, "id = ?", assetID).Error; err != nil {
		utils.NotFound(c, "Asset not found")
		return
	}

	if !isParticipant(asset.SettlementID, userID) {
		utils.Unauthorized(c, "You are not a participant of this settlement")
		return
	}

	if asset.CreatedBy != userID {
		utils.Unauthorized(c, "Only the asset creator can delete it")
		return
	}

	var deleter models.User
	database.DB.First(&deleter, "id = ?", userID)
	database.DB.Create(&models.Activity{
		SettlementID: asset.SettlementID,
		UserID:       userID,
		Type:         "asset_deleted",
		Description:  fmt.Sprintf("%s deleted asset \"%s\"", deleter.Name, asset.Name),
	})

	database.DB.Delete(&asset)

	if err := recalculate(c.Request.Context(), asset.SettlementID); err != nil {
		utils.InternalError(c, "Failed to recalculate ledger")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Asset deleted", nil)
}

// notifyAssetBuyback tells the bought-out party about the new buyback line.
func notifyAssetBuyback(asset models.Asset, settlement *models.Settlement) {
	if asset.KeptBy == nil {
		return
	}
	other := asset.KeptBy.Other()
	otherUser := userOf(settlement, other)
	keeperUser := userOf(settlement, *asset.KeptBy)
	if otherUser == nil || keeperUser == nil {
		return
	}

	var line models.OwedLine
	err := database.DB.Where("source_type = ? AND source_id = ?", models.SourceAsset, asset.ID).
		First(&line).Error
	if err != nil {
		return
	}

	go services.GetNotificationService().NotifyAssetValued(asset, *settlement, *keeperUser, *otherUser, line.Amount())
}
