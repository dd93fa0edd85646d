package request

type ClaimCouponRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type RedeemScanRequest struct {
	Code        string `json:"code" binding:"required"`
	StaffLineID string `json:"staff_line_id" binding:"required"`
	StoreID     string `json:"store_id" binding:"required"`
}

type RedeemManualRequest struct {
	Code       string `json:"code" binding:"required"`
	StoreID    string `json:"store_id" binding:"required"`
	StaffID    string `json:"staff_id" binding:"required"`
	LineUserID string `json:"line_user_id"`
}

type CancelRedemptionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CreateGroupRequest struct {
	LeaderUserID string `json:"leader_user_id" binding:"required"`
	StoreID      string `json:"store_id"`
}

type JoinGroupRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	StoreID string `json:"store_id"`
}

type ReservePresaleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Qty    int64  `json:"qty" binding:"required,gt=0"`
}
