package domain

import "time"

// A ContactMessage is a submission of the contact form.
type ContactMessage struct {
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Subject string    `json:"subject"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}
