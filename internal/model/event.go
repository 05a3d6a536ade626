// Package model defines the core domain models used throughout the application.
package model

import "time"

// Placeholders emitted for the free-text entity fields, which are never extracted.
const (
	UnknownProvider   = "Desconocido"
	UnknownLocation   = "Desconocido"
	PromptDescription = "Extraído del prompt"
)

// Slot positions in the model's output vector.
const (
	SlotProvider = iota
	SlotLocation
	SlotDescription
	SlotTime
	SlotDate
	SlotAmount
	SlotActivityType
	SlotPaymentStatus

	SlotCount
)

// EventRecord is the structured record extracted from a prompt.
type EventRecord struct {
	Provider      string        `json:"provider"`
	Location      string        `json:"location"`
	Description   string        `json:"description"`
	Time          string        `json:"time"`
	Date          string        `json:"date"`
	ActivityType  ActivityType  `json:"activityType"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Amount        int           `json:"amount"`
}

// Prediction is an EventRecord together with the model output that produced it.
type Prediction struct {
	CreatedAt   time.Time
	ID          string
	Prompt      string
	ModelID     string
	Record      EventRecord
	Confidences []float64
}
