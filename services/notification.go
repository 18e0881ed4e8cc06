package services

import (
	"bytes"
	"context"
	"fintrack-backend/config"
	"fintrack-backend/models"
	"fmt"
	"html/template"
	"log"
	"sync/atomic"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"
)

// NotificationService delivers email through SendGrid and push through FCM.
// A channel without credentials is skipped.
type NotificationService struct {
	email   *sendgrid.Client
	push    *messaging.Client
	from    *mail.Email
	timeout time.Duration
}

var notifService atomic.Pointer[NotificationService]

func init() {
	notifService.Store(&NotificationService{timeout: 5 * time.Second})
}

// InitNotificationService builds the shared service from config.AppConfig.
func InitNotificationService(ctx context.Context) *NotificationService {
	cfg := config.AppConfig
	ns := &NotificationService{
		from:    mail.NewEmail(cfg.AppName, cfg.SendGridFrom),
		timeout: cfg.NotifyTimeout,
	}

	if cfg.SendGridAPIKey != "" {
		ns.email = sendgrid.NewSendClient(cfg.SendGridAPIKey)
		log.Println("✅ SendGrid email enabled")
	} else {
		log.Println("⚠️  SENDGRID_API_KEY not set, email notifications disabled")
	}

	if cfg.FirebaseCredPath != "" {
		app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.FirebaseCredPath))
		if err != nil {
			log.Printf("⚠️  Firebase init failed, push notifications disabled: %v", err)
		} else if client, err := app.Messaging(ctx); err != nil {
			log.Printf("⚠️  FCM client failed, push notifications disabled: %v", err)
		} else {
			ns.push = client
			log.Println("✅ Firebase push enabled")
		}
	} else {
		log.Println("⚠️  FIREBASE_CREDENTIALS not set, push notifications disabled")
	}

	notifService.Store(ns)
	return ns
}

// GetNotificationService returns the shared service. Before initialisation it
// returns a service with both channels disabled.
func GetNotificationService() *NotificationService {
	return notifService.Load()
}

func (ns *NotificationService) withTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	// The request may already be finishing; notifications get their own deadline.
	return context.WithTimeout(context.WithoutCancel(parent), ns.timeout)
}

func (ns *NotificationService) sendPush(ctx context.Context, fcmToken, title, body string, data map[string]string) {
	if ns.push == nil || fcmToken == "" {
		return
	}

	id, err := ns.push.Send(ctx, &messaging.Message{
		Token:        fcmToken,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
	})
	if err != nil {
		log.Printf("❌ FCM send error: %v", err)
		return
	}
	log.Printf("✅ Push notification sent: %s", id)
}

func (ns *NotificationService) sendEmail(ctx context.Context, toEmail, toName, subject, htmlBody string) {
	if ns.email == nil || toEmail == "" {
		return
	}

	message := mail.NewSingleEmail(ns.from, subject, mail.NewEmail(toName, toEmail), subject, htmlBody)
	resp, err := ns.email.SendWithContext(ctx, message)
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

// NotifyDebtClosed tells the owner a debt has been fully settled.
func (ns *NotificationService) NotifyDebtClosed(ctx context.Context, user models.User, debt models.Debt) {
	ctx, cancel := ns.withTimeout(ctx)
	defer cancel()

	title := fmt.Sprintf("Debt with %s settled", debt.PersonName)
	body := fmt.Sprintf("%s %s has been fully settled", debtVerb(debt.Type), debt.Amount.StringFixed(2))

	ns.sendPush(ctx, user.FCMToken, title, body, map[string]string{
		"type":    models.ActivityDebtClosed,
		"debt_id": debt.ID.String(),
	})

	htmlBody, err := renderEmail(debtClosedTmpl, map[string]interface{}{
		"UserName":   user.Username,
		"PersonName": debt.PersonName,
		"Verb":       debtVerb(debt.Type),
		"Amount":     debt.Amount.StringFixed(2),
		"AppName":    appName(),
	})
	if err != nil {
		log.Printf("❌ Email template error: %v", err)
		return
	}
	ns.sendEmail(ctx, user.Email, user.Username, title, htmlBody)
}

// NotifyEMICompleted tells the owner the last installment of a plan was paid.
func (ns *NotificationService) NotifyEMICompleted(ctx context.Context, user models.User, emi models.EMI) {
	ctx, cancel := ns.withTimeout(ctx)
	defer cancel()

	title := fmt.Sprintf("EMI \"%s\" completed", emi.Title)
	body := fmt.Sprintf("All %d installments are paid", emi.TotalInstallments)

	ns.sendPush(ctx, user.FCMToken, title, body, map[string]string{
		"type":   models.ActivityEMICompleted,
		"emi_id": emi.ID.String(),
	})

	htmlBody, err := renderEmail(emiCompletedTmpl, map[string]interface{}{
		"UserName":     user.Username,
		"Title":        emi.Title,
		"Installments": emi.TotalInstallments,
		"Total":        emi.TotalAmount().StringFixed(2),
		"AppName":      appName(),
	})
	if err != nil {
		log.Printf("❌ Email template error: %v", err)
		return
	}
	ns.sendEmail(ctx, user.Email, user.Username, title, htmlBody)
}

func appName() string {
	if config.AppConfig == nil {
		return "FinTrack"
	}
	return config.AppConfig.AppName
}

// ============================================================
// EMAIL TEMPLATES
// ============================================================

const emailLayout = `
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		{{template "content" .}}
		<p style="color: #999; font-size: 12px; margin-top: 24px;">{{.AppName}}</p>
	</div>
</body>
</html>`

var debtClosedTmpl = newEmailTemplate("debt_closed", `
		<h2 style="color: #1DB954; margin-top: 0;">✅ Debt Settled</h2>
		<p>Hi <strong>{{.UserName}}</strong>,</p>
		<p>Your debt with <strong>{{.PersonName}}</strong> ({{.Verb}} {{.Amount}}) is now fully settled.</p>`)

var emiCompletedTmpl = newEmailTemplate("emi_completed", `
		<h2 style="color: #1DB954; margin-top: 0;">🎉 EMI Completed</h2>
		<p>Hi <strong>{{.UserName}}</strong>,</p>
		<p>You have paid all {{.Installments}} installments of <strong>{{.Title}}</strong>, a total of {{.Total}}.</p>`)

func newEmailTemplate(name, content string) *template.Template {
	t := template.Must(template.New(name).Parse(emailLayout))
	template.Must(t.New("content").Parse(content))
	return t
}

func renderEmail(t *template.Template, data map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
