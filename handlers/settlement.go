package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/charettep/splitup/database"
	"github.com/charettep/splitup/models"
	"github.com/charettep/splitup/services"
	"github.com/charettep/splitup/utils"
)

// POST /api/settlements
func CreateSettlement(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "CAD"
	}

	settlement := models.Settlement{
		Name:      req.Name,
		Currency:  currency,
		Person1ID: userID,
		CreatedBy: userID,
	}

	if err := database.DB.Create(&settlement).Error; err != nil {
		utils.InternalError(c, "Failed to create settlement")
		return
	}

	// Invite the partner into the second seat
	if req.PartnerEmail != "" {
		go services.InviteToSettlement(settlement.ID, userID, req.PartnerEmail)
	}

	var creator models.User
	database.DB.First(&creator, "id = ?", userID)
	database.DB.Create(&models.Activity{
		SettlementID: settlement.ID,
		UserID:       userID,
		Type:         "settlement_created",
		ReferenceID:  settlement.ID,
		Description:  fmt.Sprintf("%s created settlement \"%s\"", creator.Name, settlement.Name),
	})

	response, err := buildSettlementResponse(settlement.ID)
	if err != nil {
		utils.InternalError(c, "Failed to load settlement")
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Settlement created", response)
}

// GET /api/settlements
func GetSettlements(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var settlements []models.Settlement
	database.DB.Where("person1_id = ? OR person2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&settlements)

	utils.SuccessResponse(c, http.StatusOK, "", settlementResponses(settlements))
}

// GET /api/settlements/:id
func GetSettlement(c *gin.Context) {
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

	response, err := buildSettlementResponse(settlementID)
	if err != nil {
		utils.NotFound(c, "Settlement not found")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", response)
}

// PUT /api/settlements/:id
func UpdateSettlement(c *gin.Context) {
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

	var req models.UpdateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Currency != "" {
		updates["currency"] = req.Currency
	}

	database.DB.Model(&models.Settlement{}).Where("id = ?", settlementID).Updates(updates)

	response, err := buildSettlementResponse(settlementID)
	if err != nil {
		utils.InternalError(c, "Failed to load settlement")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Settlement updated", response)
}

// POST /api/settlements/:id/invite
func InviteToSettlementHandler(c *gin.Context) {
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

	var req models.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	go services.InviteToSettlement(settlementID, userID, req.Email)

	utils.SuccessResponse(c, http.StatusOK, "Invitation sent", nil)
}

// loadSettlement fetches a settlement with both participants.
func loadSettlement(settlementID uuid.UUID) (*models.Settlement, error) {
	var settlement models.Settlement
	err := database.DB.Preload("Person1").Preload("Person2").
		First(&settlement, "id = ?", settlementID).Error
	if err != nil {
		return nil, err
	}
	return &settlement, nil
}

func isParticipant(settlementID, userID uuid.UUID) bool {
	settlement, err := loadSettlement(settlementID)
	if err != nil {
		return false
	}
	_, ok := settlement.PartyOf(userID)
	return ok
}

// userOf returns the user record sitting on a given side, nil while the
// seat is unclaimed.
func userOf(settlement *models.Settlement, p models.Party) *models.User {
	if p == models.Person1 {
		return &settlement.Person1
	}
	return settlement.Person2
}

func buildSettlementResponse(settlementID uuid.UUID) (models.SettlementResponse, error) {
	settlement, err := loadSettlement(settlementID)
	if err != nil {
		return models.SettlementResponse{}, err
	}

	pendingEmail := ""
	if settlement.Person2 == nil {
		var pending models.Invitation
		if err := database.DB.Where("settlement_id = ? AND status = ?", settlementID, "pending").
			First(&pending).Error; err == nil {
			pendingEmail = pending.Email
		}
	}
	return settlementResponse(settlement, pendingEmail), nil
}

// settlementResponse maps a loaded settlement onto its API shape.
func settlementResponse(settlement *models.Settlement, pendingEmail string) models.SettlementResponse {
	response := models.SettlementResponse{
		ID:        settlement.ID,
		Name:      settlement.Name,
		Currency:  settlement.Currency,
		Person1:   settlement.Person1.ToResponse(),
		CreatedAt: settlement.CreatedAt,
	}
	if settlement.Person2 != nil {
		p2 := settlement.Person2.ToResponse()
		response.Person2 = &p2
	} else {
		response.PendingWith = pendingEmail
	}
	return response
}

// settlementResponses always yields a non-nil slice so an empty list
// serializes as [] rather than null.
func settlementResponses(settlements []models.Settlement) []models.SettlementResponse {
	responses := make([]models.SettlementResponse, 0, len(settlements))
	for _, s := range settlements {
		response, err := buildSettlementResponse(s.ID)
		if err != nil {
			continue
		}
		responses = append(responses, response)
	}
	return responses
}
