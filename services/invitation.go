package services

import (
	"log"

	"github.com/google/uuid"

	"github.com/charettep/splitup/database"
	"github.com/charettep/splitup/models"
)

// InviteToSettlement invites an email address to claim the second seat of
// a settlement. If the address already belongs to a user, the seat is
// filled immediately.
func InviteToSettlement(settlementID uuid.UUID, invitedBy uuid.UUID, email string) {
	var settlement models.Settlement
	if err := database.DB.Preload("Person1").First(&settlement, "id = ?", settlementID).Error; err != nil {
		log.Printf("❌ Invite failed, settlement %s not found: %v", settlementID, err)
		return
	}
	if settlement.Person2ID != nil {
		log.Printf("⚠️  Settlement %s already has both participants", settlementID)
		return
	}

	// Check if the invitee is already registered
	var existingUser models.User
	if err := database.DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
		if existingUser.ID == settlement.Person1ID {
			log.Printf("⚠️  Cannot invite the settlement creator (%s)", email)
			return
		}
		database.DB.Model(&settlement).Update("person2_id", existingUser.ID)
		database.DB.Create(&models.Activity{
			SettlementID: settlementID,
			UserID:       existingUser.ID,
			Type:         "partner_joined",
			Description:  existingUser.Name + " joined " + settlement.Name,
		})
		go GetNotificationService().NotifyPartnerJoined(settlement, settlement.Person1, existingUser)
		log.Printf("✅ Added existing user %s to settlement %s", email, settlementID)
		return
	}

	// Check if an invitation is already pending
	var existing models.Invitation
	err := database.DB.Where("settlement_id = ? AND email = ? AND status = ?", settlementID, email, "pending").
		First(&existing).Error
	if err == nil {
		log.Printf("⚠️  Invitation already pending for %s in settlement %s", email, settlementID)
		return
	}

	invitation := models.Invitation{
		SettlementID: settlementID,
		InvitedBy:    invitedBy,
		Email:        email,
		Status:       "pending",
	}
	if err := database.DB.Create(&invitation).Error; err != nil {
		log.Printf("❌ Failed to create invitation: %v", err)
		return
	}

	var inviter models.User
	database.DB.First(&inviter, "id = ?", invitedBy)
	GetNotificationService().NotifyInvitation(email, inviter.Name, settlement.Name)

	log.Printf("✅ Invitation sent to %s for settlement %s", email, settlementID)
}

// AcceptPendingInvitations fills the second seat of every settlement the
// new user was invited to. Called when a user registers.
func AcceptPendingInvitations(user models.User) {
	var invitations []models.Invitation
	database.DB.Where("email = ? AND status = ?", user.Email, "pending").Find(&invitations)

	for _, inv := range invitations {
		var settlement models.Settlement
		if err := database.DB.Preload("Person1").First(&settlement, "id = ?", inv.SettlementID).Error; err != nil {
			continue
		}
		if settlement.Person2ID != nil {
			database.DB.Model(&inv).Update("status", "declined")
			continue
		}

		database.DB.Model(&settlement).Update("person2_id", user.ID)
		database.DB.Model(&inv).Update("status", "accepted")

		database.DB.Create(&models.Activity{
			SettlementID: inv.SettlementID,
			UserID:       user.ID,
			Type:         "partner_joined",
			Description:  user.Name + " joined " + settlement.Name,
		})
		go GetNotificationService().NotifyPartnerJoined(settlement, settlement.Person1, user)
	}
}
