package response

import (
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
)

// Envelope is the body of every API response. Code 0 means success.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type Coupon struct {
	ID              string     `json:"id"`
	ActivityID      string     `json:"activity_id"`
	UserID          string     `json:"user_id"`
	GroupInstanceID string     `json:"group_instance_id,omitempty"`
	Code            string     `json:"code"`
	Status          string     `json:"status"`
	ClaimedAt       time.Time  `json:"claimed_at"`
	UsedAt          *time.Time `json:"used_at,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
	IsRead          bool       `json:"is_read"`
}

type Redemption struct {
	ID             string    `json:"id"`
	ActivityID     string    `json:"activity_id"`
	StoreID        string    `json:"store_id"`
	StaffID        string    `json:"staff_id"`
	CouponID       string    `json:"coupon_id"`
	Code           string    `json:"code"`
	Status         string    `json:"status"`
	RedemptionType string    `json:"redemption_type"`
	VerifiedAt     time.Time `json:"verified_at"`
}

type GroupInstance struct {
	ID           string     `json:"id"`
	ActivityID   string     `json:"activity_id"`
	LeaderUserID string     `json:"leader_user_id"`
	StoreID      string     `json:"store_id,omitempty"`
	StartAt      time.Time  `json:"start_at"`
	ExpireAt     time.Time  `json:"expire_at"`
	Status       string     `json:"status"`
	SucceededAt  *time.Time `json:"succeeded_at,omitempty"`
	MemberCount  int        `json:"member_count,omitempty"`
	NRequired    int        `json:"n_required,omitempty"`
}

type GroupMember struct {
	InstanceID string    `json:"instance_id"`
	UserID     string    `json:"user_id"`
	StoreID    string    `json:"store_id,omitempty"`
	JoinedAt   time.Time `json:"joined_at"`
}

type PresaleReservation struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	UserID     string    `json:"user_id"`
	Qty        int64     `json:"qty"`
	ReservedAt time.Time `json:"reserved_at"`
}

type NearbyStore struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	DistanceKm *float64 `json:"distance_km"`
	MapsURL    string   `json:"maps_url"`
}

type ActivityStats struct {
	ActivityID       string           `json:"activity_id"`
	CouponsActive    int64            `json:"coupons_active"`
	CouponsUsed      int64            `json:"coupons_used"`
	CouponsExpired   int64            `json:"coupons_expired"`
	RedemptionsTotal int64            `json:"redemptions_total"`
	ByStore          map[string]int64 `json:"by_store"`
}

func FromCoupon(c *domain.Coupon) Coupon {
	return Coupon{
		ID:              c.ID,
		ActivityID:      c.ActivityID,
		UserID:          c.UserID,
		GroupInstanceID: c.GroupInstanceID,
		Code:            c.Code,
		Status:          string(c.Status),
		ClaimedAt:       c.ClaimedAt,
		UsedAt:          c.UsedAt,
		ExpiresAt:       c.ExpiresAt,
		IsRead:          c.IsRead,
	}
}

func FromCoupons(list []*domain.Coupon) []Coupon {
	out := make([]Coupon, len(list))
	for i, c := range list {
		out[i] = FromCoupon(c)
	}
	return out
}

func FromRedemption(r *domain.Redemption) Redemption {
	return Redemption{
		ID:             r.ID,
		ActivityID:     r.ActivityID,
		StoreID:        r.StoreID,
		StaffID:        r.StaffID,
		CouponID:       r.CouponID,
		Code:           r.Code,
		Status:         string(r.Status),
		RedemptionType: string(r.RedemptionType),
		VerifiedAt:     r.VerifiedAt,
	}
}

func FromGroupInstance(g *domain.GroupInstance) GroupInstance {
	return GroupInstance{
		ID:           g.ID,
		ActivityID:   g.ActivityID,
		LeaderUserID: g.LeaderUserID,
		StoreID:      g.StoreID,
		StartAt:      g.StartAt,
		ExpireAt:     g.ExpireAt,
		Status:       string(g.Status),
		SucceededAt:  g.SucceededAt,
	}
}

// FromGroupInstanceViews reports the derived status, not the stored one.
func FromGroupInstanceViews(views []*domain.GroupInstanceView) []GroupInstance {
	out := make([]GroupInstance, len(views))
	for i, v := range views {
		g := FromGroupInstance(v.Instance)
		g.Status = string(v.DerivedStatus)
		g.MemberCount = v.MemberCount
		g.NRequired = v.NRequired
		out[i] = g
	}
	return out
}

func FromGroupMember(m *domain.GroupMember) GroupMember {
	return GroupMember{
		InstanceID: m.InstanceID,
		UserID:     m.UserID,
		StoreID:    m.StoreID,
		JoinedAt:   m.JoinedAt,
	}
}

func FromPresaleReservation(r *domain.PresaleReservation) PresaleReservation {
	return PresaleReservation{
		ID:         r.ID,
		ActivityID: r.ActivityID,
		UserID:     r.UserID,
		Qty:        r.Qty,
		ReservedAt: r.ReservedAt,
	}
}

func FromNearbyStores(list []*domain.NearbyStore) []NearbyStore {
	out := make([]NearbyStore, len(list))
	for i, s := range list {
		out[i] = NearbyStore{
			ID:         s.Store.ID,
			Name:       s.Store.Name,
			Address:    s.Store.Address,
			Lat:        s.Store.Lat,
			Lng:        s.Store.Lng,
			DistanceKm: s.DistanceKm,
			MapsURL:    s.MapsURL,
		}
	}
	return out
}

func FromActivityStats(s *domain.ActivityStats) ActivityStats {
	return ActivityStats{
		ActivityID:       s.ActivityID,
		CouponsActive:    s.CouponsActive,
		CouponsUsed:      s.CouponsUsed,
		CouponsExpired:   s.CouponsExpired,
		RedemptionsTotal: s.RedemptionsTotal,
		ByStore:          s.ByStore,
	}
}
