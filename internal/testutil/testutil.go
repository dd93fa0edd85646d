// Package testutil provides an in-memory database and seed helpers shared by
// the repository, usecase and handler tests.
package testutil

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory sqlite database with every table
// migrated. A single connection serializes transactions the way row locks do
// on postgres.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection serializes transactions; sqlite drops FOR UPDATE, so
	// tests here cannot observe postgres row-lock behavior
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Fixtures seeds rows relative to a fixed clock.
type Fixtures struct {
	t   testing.TB
	DB  *gorm.DB
	Now time.Time
}

func NewFixtures(t testing.TB, db *gorm.DB, now time.Time) *Fixtures {
	return &Fixtures{t: t, DB: db, Now: now}
}

func (f *Fixtures) create(value interface{}) {
	f.t.Helper()
	if err := f.DB.Create(value).Error; err != nil {
		f.t.Fatalf("seed %T: %v", value, err)
	}
}

func (f *Fixtures) set(model interface{}, id string, column string, value interface{}) {
	f.t.Helper()
	if err := f.DB.Model(model).Where("id = ?", id).Update(column, value).Error; err != nil {
		f.t.Fatalf("seed %s: %v", column, err)
	}
}

// ActivityOption tweaks an activity before insert.
type ActivityOption func(*models.ActivityModel)

func WithQuantity(n int64) ActivityOption {
	return func(m *models.ActivityModel) { m.Quantity = n }
}

func WithPerUserLimit(n int64) ActivityOption {
	return func(m *models.ActivityModel) { m.PerUserLimit = n }
}

func WithStatus(status domain.ActivityStatus) ActivityOption {
	return func(m *models.ActivityModel) { m.Status = status }
}

func WithWindow(start, end time.Time) ActivityOption {
	return func(m *models.ActivityModel) {
		m.StartAt = start
		m.EndAt = end
	}
}

// Activity inserts a published activity open from a day before Now to a
// week after it, limited to one per user.
func (f *Fixtures) Activity(activityType domain.ActivityType, opts ...ActivityOption) *models.ActivityModel {
	f.t.Helper()
	m := &models.ActivityModel{
		ID:           uuid.NewString(),
		Type:         activityType,
		Title:        string(activityType) + " activity",
		Price:        99,
		ListPrice:    199,
		PerUserLimit: 1,
		StartAt:      f.Now.Add(-24 * time.Hour),
		EndAt:        f.Now.Add(7 * 24 * time.Hour),
		Status:       domain.ActivityPublished,
	}
	for _, opt := range opts {
		opt(m)
	}
	f.create(m)
	return m
}

func (f *Fixtures) GroupConfig(activityID string, nRequired, timeLimitHours, useValidHours int, allowCrossStore bool) *models.GroupConfigModel {
	f.t.Helper()
	m := &models.GroupConfigModel{
		ActivityID:      activityID,
		NRequired:       nRequired,
		TimeLimitHours:  timeLimitHours,
		UseValidHours:   useValidHours,
		AllowCrossStore: allowCrossStore,
	}
	f.create(m)
	return m
}

// Store inserts an enabled active store.
func (f *Fixtures) Store(name string, lat, lng float64, weight int) *models.StoreModel {
	f.t.Helper()
	m := &models.StoreModel{
		ID:      uuid.NewString(),
		CityID:  "bangkok",
		Name:    name,
		Address: name + " road",
		Lat:     lat,
		Lng:     lng,
		PlaceID: "place-" + name,
		Status:  domain.StoreActive,
		Enabled: true,
		Weight:  weight,
	}
	f.create(m)
	return m
}

func (f *Fixtures) DisableStore(storeID string) {
	f.t.Helper()
	f.set(&models.StoreModel{}, storeID, "enabled", false)
}

func (f *Fixtures) MapStore(activityID, storeID string) {
	f.t.Helper()
	f.create(&models.ActivityStoreModel{ActivityID: activityID, StoreID: storeID})
}

func (f *Fixtures) User(lineUserID string, role domain.UserRole) *models.UserModel {
	f.t.Helper()
	m := &models.UserModel{
		ID:          uuid.NewString(),
		LineUserID:  lineUserID,
		DisplayName: lineUserID,
		Role:        role,
	}
	f.create(m)
	return m
}

func (f *Fixtures) Staff(storeID, userID string, canVerify bool) {
	f.t.Helper()
	f.create(&models.StoreStaffModel{StoreID: storeID, UserID: userID, CanVerify: true})
	if !canVerify {
		if err := f.DB.Model(&models.StoreStaffModel{}).
			Where("store_id = ? AND user_id = ?", storeID, userID).
			Update("can_verify", false).Error; err != nil {
			f.t.Fatalf("seed can_verify: %v", err)
		}
	}
}

// Coupon inserts a coupon claimed at Now.
func (f *Fixtures) Coupon(activityID, userID, code string, status domain.CouponStatus, expiresAt time.Time) *domain.Coupon {
	f.t.Helper()
	coupon := &domain.Coupon{
		ID:         uuid.NewString(),
		ActivityID: activityID,
		UserID:     userID,
		Code:       code,
		Status:     status,
		ClaimedAt:  f.Now,
		ExpiresAt:  expiresAt,
	}
	f.create(mappers.ToGORMCoupon(coupon))
	return coupon
}

// RecordingDispatcher keeps every dispatched event in memory.
type RecordingDispatcher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (d *RecordingDispatcher) Dispatch(event domain.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *RecordingDispatcher) Events() []domain.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Event, len(d.events))
	copy(out, d.events)
	return out
}

func (d *RecordingDispatcher) OfType(eventType domain.EventType) []domain.Event {
	var out []domain.Event
	for _, e := range d.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// ScriptedCodes returns the scripted codes in order, then unique generated ones.
type ScriptedCodes struct {
	mu     sync.Mutex
	script []string
	next   int
}

func NewScriptedCodes(script ...string) *ScriptedCodes {
	return &ScriptedCodes{script: script}
}

func (g *ScriptedCodes) NewCode() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	if g.next <= len(g.script) {
		return g.script[g.next-1]
	}
	return fmt.Sprintf("GEN%05d", g.next)
}

// NowUTC is the current time at second precision, for fixtures that run
// against the real clock.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
