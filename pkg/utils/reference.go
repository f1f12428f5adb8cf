package utils

import "math/rand"

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// BookingReferenceLength is the length of the human-facing booking code.
const BookingReferenceLength = 8

// GenerateBookingReference returns a short uppercase alphanumeric code for a
// booking. Codes are not checked for uniqueness here; the bookings table
// carries a unique constraint and a collision simply fails the insert.
func GenerateBookingReference() string {
	ref := make([]byte, BookingReferenceLength)
	for i := range ref {
		ref[i] = referenceAlphabet[rand.Intn(len(referenceAlphabet))]
	}
	return string(ref)
}
