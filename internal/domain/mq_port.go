package domain

import "time"

type Message struct {
	Key   []byte
	Value []byte
}

type EventType string

const (
	EventCouponClaimed       EventType = "coupon.claimed"
	EventRedemptionSucceeded EventType = "redemption.succeeded"
	EventGroupSucceeded      EventType = "group.succeeded"
	EventGroupFailed         EventType = "group.failed"
	EventPresaleReserved     EventType = "presale.reserved"
)

// Event is the payload handed to the notification dispatcher. UserIDs lists
// the recipients of the push.
type Event struct {
	Type       EventType         `json:"type"`
	ActivityID string            `json:"activity_id"`
	UserIDs    []string          `json:"user_ids"`
	RefID      string            `json:"ref_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NotificationDispatcher is fire-and-forget: Dispatch must not block the
// caller and never reports failures back.
type NotificationDispatcher interface {
	Dispatch(event Event)
}
