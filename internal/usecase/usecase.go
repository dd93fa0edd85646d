package usecase

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
)

const (
	DefaultCodeAttempts = 5
	DefaultNearbyLimit  = 10
	MaxNearbyLimit      = 50
)

func utcNow() time.Time {
	return time.Now().UTC()
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// withCodeRetry runs fn until it stops failing with ErrDuplicateCode, at most
// attempts times. Every attempt runs its own transaction, so a collision never
// leaves partial state behind.
func withCodeRetry(attempts int, onCollision func(), fn func() error) error {
	if attempts <= 0 {
		attempts = DefaultCodeAttempts
	}
	for i := 0; i < attempts; i++ {
		err := fn()
		if !errors.Is(err, domain.ErrDuplicateCode) {
			return err
		}
		if onCollision != nil {
			onCollision()
		}
		slog.Warn("coupon code collision, regenerating", "attempt", i+1)
	}
	return domain.ErrCodeGenerationExhausted
}

func dispatch(d domain.NotificationDispatcher, event domain.Event) {
	if d == nil {
		return
	}
	d.Dispatch(event)
}

// reasonLabel turns a domain error into a bounded metric label.
func reasonLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, domain.ErrActivityNotFound):
		return "activity_not_found"
	case errors.Is(err, domain.ErrActivityNotClaimable):
		return "not_claimable"
	case errors.Is(err, domain.ErrActivityTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, domain.ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, domain.ErrSoldOut):
		return "sold_out"
	case errors.Is(err, domain.ErrAlreadyReserved):
		return "already_reserved"
	case errors.Is(err, domain.ErrStaffUnauthorized):
		return "staff_unauthorized"
	case errors.Is(err, domain.ErrStoreUnauthorized):
		return "store_unauthorized"
	case errors.Is(err, domain.ErrStoreNotInActivity):
		return "store_not_in_activity"
	case errors.Is(err, domain.ErrCodeNotFound):
		return "code_not_found"
	case errors.Is(err, domain.ErrCodeNotActive):
		return "code_not_active"
	case errors.Is(err, domain.ErrCouponExpired):
		return "expired"
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		return "already_redeemed"
	case errors.Is(err, domain.ErrCouponOwnerMismatch):
		return "owner_mismatch"
	case errors.Is(err, domain.ErrCodeGenerationExhausted):
		return "code_exhausted"
	default:
		return "internal"
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
