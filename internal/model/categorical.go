package model

import (
	"fmt"

	"github.com/Veraticus/evento/internal/common"
)

// ActivityType indicates whether an event recurs.
type ActivityType string

// Activity type constants.
const (
	ActivityEventual ActivityType = "Eventual"
	ActivityFijo     ActivityType = "Fijo"
)

// PaymentStatus indicates whether an event has been paid for.
type PaymentStatus string

// Payment status constants.
const (
	PaymentPendiente PaymentStatus = "Pendiente"
	PaymentPagado    PaymentStatus = "Pagado"
)

var (
	activityTypeCodes  = map[ActivityType]int{ActivityEventual: 0, ActivityFijo: 1}
	activityTypeLabels = map[int]ActivityType{0: ActivityEventual, 1: ActivityFijo}

	paymentStatusCodes  = map[PaymentStatus]int{PaymentPendiente: 0, PaymentPagado: 1}
	paymentStatusLabels = map[int]PaymentStatus{0: PaymentPendiente, 1: PaymentPagado}
)

// ParseActivityType validates a raw label against the activity type table.
func ParseActivityType(s string) (ActivityType, error) {
	at := ActivityType(s)
	if _, ok := activityTypeCodes[at]; !ok {
		return "", fmt.Errorf("%w: activity type %q", common.ErrUnknownCategory, s)
	}
	return at, nil
}

// Code returns the numeric code of the activity type.
func (a ActivityType) Code() (int, error) {
	code, ok := activityTypeCodes[a]
	if !ok {
		return 0, fmt.Errorf("%w: activity type %q", common.ErrUnknownCategory, string(a))
	}
	return code, nil
}

// ActivityTypeFromCode maps a numeric code back to its label.
func ActivityTypeFromCode(code int) (ActivityType, error) {
	at, ok := activityTypeLabels[code]
	if !ok {
		return "", fmt.Errorf("%w: activity type code %d", common.ErrUnknownCategory, code)
	}
	return at, nil
}

// ParsePaymentStatus validates a raw label against the payment status table.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	ps := PaymentStatus(s)
	if _, ok := paymentStatusCodes[ps]; !ok {
		return "", fmt.Errorf("%w: payment status %q", common.ErrUnknownCategory, s)
	}
	return ps, nil
}

// Code returns the numeric code of the payment status.
func (p PaymentStatus) Code() (int, error) {
	code, ok := paymentStatusCodes[p]
	if !ok {
		return 0, fmt.Errorf("%w: payment status %q", common.ErrUnknownCategory, string(p))
	}
	return code, nil
}

// PaymentStatusFromCode maps a numeric code back to its label.
func PaymentStatusFromCode(code int) (PaymentStatus, error) {
	ps, ok := paymentStatusLabels[code]
	if !ok {
		return "", fmt.Errorf("%w: payment status code %d", common.ErrUnknownCategory, code)
	}
	return ps, nil
}
