package domain

import "errors"

// Validation
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrActivityNotClaimable = errors.New("activity is not claimable")
	ErrActivityTypeMismatch = errors.New("operation not supported for activity type")
	ErrGroupConfigMissing   = errors.New("group config missing")
	ErrCouponOwnerMismatch  = errors.New("coupon does not belong to user")
	ErrCrossStoreNotAllowed = errors.New("cross-store group join not allowed")
)

// Not found
var (
	ErrActivityNotFound   = errors.New("activity not found")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCodeNotFound       = errors.New("code not found")
	ErrInstanceNotFound   = errors.New("group instance not found")
	ErrRedemptionNotFound = errors.New("redemption not found")
	ErrUserNotFound       = errors.New("user not found")
)

// Conflict
var (
	ErrCodeNotActive             = errors.New("code not active")
	ErrAlreadyRedeemed           = errors.New("coupon already redeemed")
	ErrCouponExpired             = errors.New("coupon expired")
	ErrAlreadyMember             = errors.New("already a group member")
	ErrAlreadyReserved           = errors.New("already reserved")
	ErrInstanceExpired           = errors.New("group instance expired")
	ErrInstanceClosed            = errors.New("group instance already formed")
	ErrRedemptionAlreadyCanceled = errors.New("redemption already canceled")
)

// Authorization
var (
	ErrStaffUnauthorized  = errors.New("staff unauthorized")
	ErrStoreUnauthorized  = errors.New("store unauthorized")
	ErrStoreNotInActivity = errors.New("store does not participate in activity")
)

// Capacity
var (
	ErrLimitExceeded = errors.New("per-user limit exceeded")
	ErrSoldOut       = errors.New("sold out")
)

// Infrastructure
var (
	ErrDuplicateCode           = errors.New("duplicate coupon code")
	ErrCodeGenerationExhausted = errors.New("coupon code generation exhausted")
)
