package service

import (
	"fmt"
	"log"
	"os"
	"parkhouse/internal/db"
	"parkhouse/internal/entities"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// NotifyService sends parking receipts by email and SMS after a reservation
// closes. Delivery is best effort: failures are logged, never returned to the
// release path.
type NotifyService struct{}

func NewNotifyService() *NotifyService {
	return &NotifyService{}
}

func (s *NotifyService) ReservationClosed(user *db.User, res *entities.ReservationResponse) {
	if res.ExitTime == nil || res.Cost == nil {
		return
	}

	subject := fmt.Sprintf("Parking receipt - spot %d at %s", res.SpotNumber, res.LotName)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your parking at %s is complete.\n\n"+
			"Spot: %d\n"+
			"Entry: %s\n"+
			"Exit: %s\n"+
			"Total cost: $%.2f\n\n"+
			"Thank you for parking with us.",
		user.Username, res.LotName, res.SpotNumber,
		res.EntryTime.Format("02 Jan 2006 15:04 MST"),
		res.ExitTime.Format("02 Jan 2006 15:04 MST"),
		*res.Cost,
	)

	if user.Email != "" {
		if err := SendEmailWithSendGrid(user.Email, user.Username, subject, body); err != nil {
			log.Printf("Receipt email for reservation %d failed: %v", res.ID, err)
		}
	}

	if user.Phone != "" {
		sms := fmt.Sprintf("Parking receipt: spot %d at %s released. Total: $%.2f. Details in your email.",
			res.SpotNumber, res.LotName, *res.Cost)
		if err := SendSMS(user.Phone, sms); err != nil {
			log.Printf("Receipt SMS for reservation %d failed: %v", res.ID, err)
		}
	}
}

func SendEmailWithSendGrid(toEmailAddress, toName, subject, plainTextContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not set")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL not set")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "ParkHouse"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, "")

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("send email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	log.Printf("Receipt email sent to %s (subject: %s)", toEmailAddress, subject)
	return nil
}

func SendSMS(toNumber, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || fromNumber == "" {
		return fmt.Errorf("twilio credentials not fully configured")
	}

	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("Destination number %q is not E.164, SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send SMS: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("Receipt SMS sent to %s (sid %s)", toNumber, *resp.Sid)
	}
	return nil
}
