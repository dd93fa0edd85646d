package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EngineMetrics holds the counters of the engagement engine.
type EngineMetrics struct {
	// Coupons
	CouponsClaimedTotal prometheus.CounterVec
	CouponsExpiredTotal prometheus.Counter
	ClaimRejectedTotal  prometheus.CounterVec
	CodeCollisionsTotal prometheus.Counter

	// Redemptions
	RedemptionsTotal         prometheus.CounterVec
	RedemptionRejectedTotal  prometheus.CounterVec
	RedemptionsCanceledTotal prometheus.Counter

	// Group buy
	GroupInstancesCreatedTotal prometheus.Counter
	GroupJoinsTotal            prometheus.Counter
	GroupOutcomesTotal         prometheus.CounterVec

	// Presale
	PresaleReservationsTotal prometheus.Counter
	PresaleRejectedTotal     prometheus.CounterVec

	// Latency of the atomic sections
	OperationDuration prometheus.HistogramVec
}

// NewEngineMetrics registers the engine metrics with reg. A nil reg falls back
// to the default registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &EngineMetrics{
		CouponsClaimedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_coupons_claimed_total",
				Help: "Coupons issued, by source",
			},
			[]string{"source"},
		),

		CouponsExpiredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "activity_coupons_expired_total",
				Help: "Coupons moved to expired",
			},
		),

		ClaimRejectedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_claim_rejected_total",
				Help: "Rejected coupon claims, by reason",
			},
			[]string{"reason"},
		),

		CodeCollisionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "activity_code_collisions_total",
				Help: "Generated codes that hit the unique constraint",
			},
		),

		RedemptionsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_redemptions_total",
				Help: "Successful redemptions, by store and channel",
			},
			[]string{"store_id", "type"},
		),

		RedemptionRejectedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_redemption_rejected_total",
				Help: "Rejected redemptions, by reason",
			},
			[]string{"reason"},
		),

		RedemptionsCanceledTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "activity_redemptions_canceled_total",
				Help: "Canceled redemptions",
			},
		),

		GroupInstancesCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "activity_group_instances_created_total",
				Help: "Group-buy instances opened",
			},
		),

		GroupJoinsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "activity_group_joins_total",
				Help: "Accepted group-buy joins",
			},
		),

		GroupOutcomesTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_group_outcomes_total",
				Help: "Group-buy instances reaching a terminal status",
			},
			[]string{"status"},
		),

		PresaleReservationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "activity_presale_reservations_total",
				Help: "Accepted presale reservations",
			},
		),

		PresaleRejectedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_presale_rejected_total",
				Help: "Rejected presale reservations, by reason",
			},
			[]string{"reason"},
		),

		OperationDuration: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "activity_operation_duration_seconds",
				Help:    "Duration of engine operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "result"},
		),
	}
}

func (m *EngineMetrics) RecordCouponClaimed(source string) {
	m.CouponsClaimedTotal.WithLabelValues(source).Inc()
}

func (m *EngineMetrics) RecordCouponsIssued(source string, n int) {
	m.CouponsClaimedTotal.WithLabelValues(source).Add(float64(n))
}

func (m *EngineMetrics) RecordCouponsExpired(n int64) {
	m.CouponsExpiredTotal.Add(float64(n))
}

func (m *EngineMetrics) RecordClaimRejected(reason string) {
	m.ClaimRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *EngineMetrics) RecordCodeCollision() {
	m.CodeCollisionsTotal.Inc()
}

func (m *EngineMetrics) RecordRedemption(storeID, redemptionType string) {
	m.RedemptionsTotal.WithLabelValues(storeID, redemptionType).Inc()
}

func (m *EngineMetrics) RecordRedemptionRejected(reason string) {
	m.RedemptionRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *EngineMetrics) RecordRedemptionCanceled() {
	m.RedemptionsCanceledTotal.Inc()
}

func (m *EngineMetrics) RecordGroupCreated() {
	m.GroupInstancesCreatedTotal.Inc()
}

func (m *EngineMetrics) RecordGroupJoin() {
	m.GroupJoinsTotal.Inc()
}

func (m *EngineMetrics) RecordGroupOutcome(status string) {
	m.GroupOutcomesTotal.WithLabelValues(status).Inc()
}

func (m *EngineMetrics) RecordPresaleReserved() {
	m.PresaleReservationsTotal.Inc()
}

func (m *EngineMetrics) RecordPresaleRejected(reason string) {
	m.PresaleRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordDuration observes an operation's latency labelled ok or error.
func (m *EngineMetrics) RecordDuration(operation string, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.OperationDuration.WithLabelValues(operation, result).Observe(seconds)
}
