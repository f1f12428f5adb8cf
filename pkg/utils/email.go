package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "Transitly"
	baseURL       = os.Getenv("BASE_URL")
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #1565C0; margin: 0;">Transitly</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2026 Transitly. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "Transitly-Mailer"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	// Authentication
	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	// Send email
	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

func SendBookingConfirmationEmail(email, reference, routeName string, seats int, totalFare float64) error {
	subject := "Ticket Booked - Transitly"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Ticket Booked</h1>
					<p>Hello,</p>
					<p>Your booking on <strong>%s</strong> is confirmed.</p>
					<p>Reference: <strong>%s</strong><br>Seats: <strong>%d</strong><br>Total fare: <strong>%.2f</strong></p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/my-bookings" style="background-color: #1565C0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Booking</a>
					</div>
					<p>Best regards,<br>The Transitly Team</p>
				</div>`+emailFooter,
		routeName, reference, seats, totalFare, baseURL)

	return sendEmail([]string{email}, subject, body)
}

func SendBookingCancelledEmail(email, reference string) error {
	subject := "Booking Cancelled - Transitly"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Booking Cancelled</h1>
					<p>Hello,</p>
					<p>Your booking <strong>%s</strong> has been cancelled and the seats released.</p>
					<p>You can book another trip any time.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/search" style="background-color: #1565C0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Find a Route</a>
					</div>
					<p>Best regards,<br>The Transitly Team</p>
				</div>`+emailFooter,
		reference, baseURL)
	return sendEmail([]string{email}, subject, body)
}

func SendPaymentReceivedEmail(email, reference string, totalFare float64) error {
	subject := "Payment Received - Transitly"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Payment Received</h1>
					<p>Hello,</p>
					<p>We received your payment of <strong>%.2f</strong> for booking <strong>%s</strong>.</p>
					<p>Have a pleasant journey!</p>
					<p>Best regards,<br>The Transitly Team</p>
				</div>`+emailFooter,
		totalFare, reference)
	return sendEmail([]string{email}, subject, body)
}
