package domain

import "time"

type Subscriber struct {
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}
