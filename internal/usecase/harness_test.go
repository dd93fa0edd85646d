package usecase

import (
	"testing"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-activity-service/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type harness struct {
	db      *gorm.DB
	fx      *testutil.Fixtures
	codes   *testutil.ScriptedCodes
	events  *testutil.RecordingDispatcher
	metrics *metrics.EngineMetrics
	clock   time.Time

	coupons     *DefaultCouponUsecase
	redemptions *DefaultRedemptionUsecase
	groups      *DefaultGroupUsecase
	presale     *DefaultPresaleUsecase
	stores      *DefaultStoreUsecase
	activity    *DefaultActivityUsecase
}

func newHarness(t *testing.T, codeScript ...string) *harness {
	t.Helper()

	db := testutil.NewTestDB(t)
	h := &harness{
		db:      db,
		fx:      testutil.NewFixtures(t, db, testNow),
		codes:   testutil.NewScriptedCodes(codeScript...),
		events:  &testutil.RecordingDispatcher{},
		metrics: metrics.NewEngineMetrics(prometheus.NewRegistry()),
		clock:   testNow,
	}

	activityRepo := repository.NewDefaultActivityRepository(db)
	couponRepo := repository.NewDefaultCouponRepository(db)
	storeRepo := repository.NewDefaultStoreRepository(db)

	h.coupons = NewDefaultCouponUsecase(couponRepo, activityRepo, h.codes, h.events, h.metrics, DefaultCodeAttempts)
	h.redemptions = NewDefaultRedemptionUsecase(
		repository.NewDefaultRedemptionRepository(db),
		couponRepo,
		repository.NewDefaultIdentityRepository(db),
		storeRepo,
		h.events,
		h.metrics,
	)
	h.groups = NewDefaultGroupUsecase(
		repository.NewDefaultGroupRepository(db),
		activityRepo,
		storeRepo,
		h.codes,
		h.events,
		h.metrics,
		DefaultCodeAttempts,
	)
	h.presale = NewDefaultPresaleUsecase(repository.NewDefaultPresaleRepository(db), activityRepo, h.events, h.metrics)
	h.stores = NewDefaultStoreUsecase(storeRepo, activityRepo, 0)
	h.activity = NewDefaultActivityUsecase(activityRepo)

	clock := func() time.Time { return h.clock }
	h.coupons.Clock = clock
	h.redemptions.Clock = clock
	h.groups.Clock = clock
	h.presale.Clock = clock
	return h
}

func (h *harness) advance(d time.Duration) {
	h.clock = h.clock.Add(d)
}
