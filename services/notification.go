package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/charettep/splitup/config"
	"github.com/charettep/splitup/models"
	"github.com/charettep/splitup/utils"
)

type NotificationService struct {
	fcm *messaging.Client
}

var notifService *NotificationService

func GetNotificationService() *NotificationService {
	if notifService == nil {
		notifService = &NotificationService{fcm: newMessagingClient()}
	}
	return notifService
}

// newMessagingClient initializes the FCM client; push is silently disabled
// when Firebase credentials aren't configured.
func newMessagingClient() *messaging.Client {
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(config.AppConfig.FirebaseCredPath))
	if err != nil {
		log.Println("⚠️  Firebase not configured, push notifications disabled:", err)
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Println("⚠️  Firebase messaging unavailable:", err)
		return nil
	}
	return client
}

// ============================================================
// PUSH NOTIFICATIONS via Firebase Cloud Messaging
// ============================================================

func (ns *NotificationService) sendPush(fcmToken string, title string, body string, data map[string]string) {
	if ns.fcm == nil || fcmToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := ns.fcm.Send(context.Background(), msg); err != nil {
		log.Printf("❌ FCM send error: %v", err)
		return
	}
	log.Printf("✅ Push notification sent: %s", title)
}

// ============================================================
// EMAIL NOTIFICATIONS via SendGrid
// ============================================================

func (ns *NotificationService) sendEmail(toEmail string, toName string, subject string, htmlBody string) {
	if config.AppConfig.SendGridAPIKey == "" {
		log.Printf("⚠️  SendGrid API key not set, skipping email to %s", toEmail)
		return
	}

	from := mail.NewEmail(config.AppConfig.AppName, config.AppConfig.SendGridFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("❌ Email send error: %v", err)
		return
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Printf("✅ Email sent to %s", toEmail)
	} else {
		log.Printf("⚠️  SendGrid returned status: %d", resp.StatusCode)
	}
}

// ============================================================
// NOTIFICATION EVENTS
// ============================================================

// NotifyExpenseAdded tells the other party about a new expense and their
// share of it.
func (ns *NotificationService) NotifyExpenseAdded(expense models.Expense, settlement models.Settlement, actor models.User, other models.User, owed decimal.Decimal) {
	owedStr := utils.FormatMoney(owed, settlement.Currency)
	title := fmt.Sprintf("%s added an expense", actor.Name)
	body := fmt.Sprintf("You owe %s for \"%s\" in %s", owedStr, expense.Description, settlement.Name)

	ns.sendPush(other.FCMToken, title, body, map[string]string{
		"type":          "expense_added",
		"expense_id":    expense.ID.String(),
		"settlement_id": expense.SettlementID.String(),
	})

	htmlBody := buildExpenseEmailHTML(actor.Name, other.Name, expense.Description,
		utils.FormatMoney(expense.TotalAmount, settlement.Currency), owedStr, settlement.Name)
	ns.sendEmail(other.Email, other.Name, fmt.Sprintf("%s added \"%s\" in %s", actor.Name, expense.Description, settlement.Name), htmlBody)
}

// NotifyAssetValued tells the party being bought out about the new buyback.
func (ns *NotificationService) NotifyAssetValued(asset models.Asset, settlement models.Settlement, keeper models.User, other models.User, buyback decimal.Decimal) {
	buybackStr := utils.FormatMoney(buyback, settlement.Currency)
	title := fmt.Sprintf("%s is keeping %s", keeper.Name, asset.Name)
	body := fmt.Sprintf("%s owes you %s for your stake in \"%s\"", keeper.Name, buybackStr, asset.Name)

	ns.sendPush(other.FCMToken, title, body, map[string]string{
		"type":          "asset_valued",
		"asset_id":      asset.ID.String(),
		"settlement_id": asset.SettlementID.String(),
	})

	htmlBody := buildAssetEmailHTML(keeper.Name, other.Name, asset.Name, buybackStr, settlement.Name)
	ns.sendEmail(other.Email, other.Name, title, htmlBody)
}

// NotifyDebtPaid tells the creditor a line was marked as paid.
func (ns *NotificationService) NotifyDebtPaid(line models.OwedLine, settlement models.Settlement, payer models.User, creditor models.User) {
	amountStr := utils.FormatMoney(line.Amount(), settlement.Currency)
	title := fmt.Sprintf("%s settled a debt", payer.Name)
	body := fmt.Sprintf("%s marked \"%s\" (%s) as paid in %s", payer.Name, line.Description, amountStr, settlement.Name)

	ns.sendPush(creditor.FCMToken, title, body, map[string]string{
		"type":          "debt_paid",
		"owed_line_id":  line.ID.String(),
		"settlement_id": line.SettlementID.String(),
	})

	htmlBody := buildDebtPaidEmailHTML(payer.Name, creditor.Name, line.Description, amountStr, settlement.Name)
	ns.sendEmail(creditor.Email, creditor.Name, title, htmlBody)
}

// NotifyPartnerJoined tells the creator their partner claimed the second seat.
func (ns *NotificationService) NotifyPartnerJoined(settlement models.Settlement, creator models.User, partner models.User) {
	title := fmt.Sprintf("%s joined \"%s\"", partner.Name, settlement.Name)
	body := fmt.Sprintf("%s accepted your invitation to %s", partner.Name, settlement.Name)

	ns.sendPush(creator.FCMToken, title, body, map[string]string{
		"type":          "partner_joined",
		"settlement_id": settlement.ID.String(),
	})

	htmlBody := buildPartnerJoinedEmailHTML(partner.Name, creator.Name, settlement.Name)
	ns.sendEmail(creator.Email, creator.Name, title, htmlBody)
}

// NotifyInvitation emails a not-yet-registered partner.
func (ns *NotificationService) NotifyInvitation(email string, inviterName string, settlementName string) {
	subject := fmt.Sprintf("%s invited you to \"%s\" on %s", inviterName, settlementName, config.AppConfig.AppName)
	htmlBody := buildInvitationEmailHTML(inviterName, settlementName)
	ns.sendEmail(email, "", subject, htmlBody)
}

// ============================================================
// EMAIL TEMPLATES
// ============================================================

func buildExpenseEmailHTML(actorName, otherName, description, totalStr, owedStr, settlementName string) string {
	tmpl := `
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">💰 New Expense Added</h2>
		<p>Hi <strong>{{.OtherName}}</strong>,</p>
		<p><strong>{{.ActorName}}</strong> added a new expense in <strong>{{.SettlementName}}</strong>:</p>
		<div style="background: #f8f9fa; border-radius: 8px; padding: 16px; margin: 16px 0;">
			<p style="margin: 4px 0; font-size: 18px;"><strong>{{.Description}}</strong></p>
			<p style="margin: 4px 0; color: #666;">Total: {{.Total}}</p>
			<p style="margin: 4px 0; color: #e53e3e; font-size: 18px;"><strong>Your share: {{.Owed}}</strong></p>
		</div>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— SplitUp</p>
	</div>
</body>
</html>`

	t, _ := template.New("expense").Parse(tmpl)
	var buf bytes.Buffer
	t.Execute(&buf, map[string]interface{}{
		"ActorName":      actorName,
		"OtherName":      otherName,
		"Description":    description,
		"Total":          totalStr,
		"Owed":           owedStr,
		"SettlementName": settlementName,
	})
	return buf.String()
}

func buildAssetEmailHTML(keeperName, otherName, assetName, buybackStr, settlementName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">🏷️ Asset Buyback</h2>
		<p>Hi <strong>%s</strong>,</p>
		<p><strong>%s</strong> is keeping <strong>"%s"</strong> in <strong>%s</strong> and owes you <strong>%s</strong> for your original stake.</p>
		<p>Check the app to see your updated ledger.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— SplitUp</p>
	</div>
</body>
</html>`, otherName, keeperName, assetName, settlementName, buybackStr)
}

func buildDebtPaidEmailHTML(payerName, creditorName, description, amountStr, settlementName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">✅ Debt Settled</h2>
		<p>Hi <strong>%s</strong>,</p>
		<p><strong>%s</strong> marked <strong>"%s"</strong> (%s) as paid in <strong>%s</strong>.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— SplitUp</p>
	</div>
</body>
</html>`, creditorName, payerName, description, amountStr, settlementName)
}

func buildPartnerJoinedEmailHTML(partnerName, creatorName, settlementName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">👋 Your partner joined!</h2>
		<p>Hi <strong>%s</strong>,</p>
		<p><strong>%s</strong> joined <strong>"%s"</strong>. You can now split expenses and assets together.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— SplitUp</p>
	</div>
</body>
</html>`, creatorName, partnerName, settlementName)
}

func buildInvitationEmailHTML(inviterName, settlementName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">🎉 You're invited!</h2>
		<p><strong>%s</strong> invited you to join <strong>"%s"</strong> on SplitUp.</p>
		<p>SplitUp keeps a running ledger of shared expenses and jointly owned things, so settling up is never a fight.</p>
		<div style="margin: 24px 0;">
			<a href="%s" style="background: #1DB954; color: white; padding: 12px 32px; border-radius: 8px; text-decoration: none; font-weight: bold;">Join Now</a>
		</div>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— SplitUp</p>
	</div>
</body>
</html>`, inviterName, settlementName, config.AppConfig.AppURL)
}
