package utils

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
)

var (
	atUsername = os.Getenv("AT_USERNAME")
	atAPIKey   = os.Getenv("AT_API_KEY")
)

func sendSMS(message string, recipients []string) error {
	if atUsername == "" {
		return fmt.Errorf("africa's talking username not set")
	}

	if atAPIKey == "" {
		return fmt.Errorf("africa's talking API key not set")
	}

	baseURL := "https://api.africastalking.com/version1/messaging"
	log.Printf("Sending SMS to recipients: %v", recipients)

	// Prepare the form data
	data := url.Values{}
	data.Set("username", atUsername)
	data.Set("to", strings.Join(recipients, ","))
	data.Set("message", message)

	// Create the request
	req, err := http.NewRequest("POST", baseURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	// Set headers
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apiKey", atAPIKey)
	req.Header.Set("Accept", "application/json")

	// Send the request
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("SMS gateway returned %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("SMS sent, gateway response: %s", string(body))
	return nil
}

// SendBookingConfirmationSMS texts the booking reference to the passenger.
func SendBookingConfirmationSMS(phone, reference, routeName string) error {
	message := fmt.Sprintf("Transitly: ticket booked on %s. Reference %s.", routeName, reference)
	return sendSMS(message, []string{phone})
}

// SendBookingCancelledSMS confirms a cancellation.
func SendBookingCancelledSMS(phone, reference string) error {
	message := fmt.Sprintf("Transitly: booking %s cancelled, seats released.", reference)
	return sendSMS(message, []string{phone})
}
