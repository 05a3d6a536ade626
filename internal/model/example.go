package model

import "github.com/Veraticus/evento/internal/normalize"

// AnnotatedExample is one hand-labelled training prompt. The time, day and amount
// fields hold the raw reference fragments that the normalizers turn into canonical
// values; the categorical fields hold table labels.
type AnnotatedExample struct {
	Prompt        string `yaml:"prompt"`
	Provider      string `yaml:"provider"`
	Location      string `yaml:"location"`
	Description   string `yaml:"description"`
	TimeText      string `yaml:"time"`
	DayText       string `yaml:"day"`
	AmountText    string `yaml:"amount"`
	ActivityType  string `yaml:"activity_type"`
	PaymentStatus string `yaml:"payment_status"`
}

// Labels is the encoded form of an AnnotatedExample, one typed field per slot.
type Labels struct {
	Provider      string
	Location      string
	Description   string
	Time          string
	Date          string
	ActivityType  ActivityType
	PaymentStatus PaymentStatus
	Amount        int
}

// Targets returns the training target for the network, one value per slot.
// Slots for the free-text and normalized fields carry a presence indicator
// (1 when the field has a non-sentinel value); the categorical slots carry
// their table codes.
func (l Labels) Targets() ([]float64, error) {
	activity, err := l.ActivityType.Code()
	if err != nil {
		return nil, err
	}
	payment, err := l.PaymentStatus.Code()
	if err != nil {
		return nil, err
	}

	targets := make([]float64, SlotCount)
	targets[SlotProvider] = presence(l.Provider != "")
	targets[SlotLocation] = presence(l.Location != "")
	targets[SlotDescription] = presence(l.Description != "")
	targets[SlotTime] = presence(l.Time != "" && l.Time != normalize.TimeSentinel)
	targets[SlotDate] = presence(l.Date != "" && l.Date != normalize.DateSentinel)
	targets[SlotAmount] = presence(l.Amount > 0)
	targets[SlotActivityType] = float64(activity)
	targets[SlotPaymentStatus] = float64(payment)

	return targets, nil
}

func presence(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

// Correction is a user-supplied fix for a stored prediction.
type Correction struct {
	PredictionID  string
	Prompt        string
	Provider      string
	Location      string
	Description   string
	ActivityType  ActivityType
	PaymentStatus PaymentStatus
	ID            int64
}

// AsExample turns a correction into an annotated training example. The prompt
// itself serves as the reference text for the normalized fields, with the
// clock expression cut out of the amount text.
func (c Correction) AsExample() AnnotatedExample {
	return AnnotatedExample{
		Prompt:        c.Prompt,
		Provider:      c.Provider,
		Location:      c.Location,
		Description:   c.Description,
		TimeText:      c.Prompt,
		DayText:       c.Prompt,
		AmountText:    normalize.WithoutTime(c.Prompt),
		ActivityType:  string(c.ActivityType),
		PaymentStatus: string(c.PaymentStatus),
	}
}
