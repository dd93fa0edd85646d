package setup

import (
	"github.com/LavaJover/shvark-activity-service/internal/config"
	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-activity-service/internal/usecase"
)

type UseCases struct {
	CouponUsecase     usecase.CouponUsecase
	RedemptionUsecase usecase.RedemptionUsecase
	GroupUsecase      usecase.GroupUsecase
	PresaleUsecase    usecase.PresaleUsecase
	StoreUsecase      usecase.StoreUsecase
	ActivityUsecase   usecase.ActivityUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	return NewUseCases(deps.Repositories, deps.Codes, deps.Dispatcher, deps.Metrics, deps.Config.Engine)
}

func NewUseCases(
	repos *Repositories,
	codes domain.CodeGenerator,
	dispatcher domain.NotificationDispatcher,
	engineMetrics *metrics.EngineMetrics,
	engine config.Engine,
) *UseCases {
	return &UseCases{
		CouponUsecase: usecase.NewDefaultCouponUsecase(
			repos.CouponRepo,
			repos.ActivityRepo,
			codes,
			dispatcher,
			engineMetrics,
			engine.CodeAttempts,
		),
		RedemptionUsecase: usecase.NewDefaultRedemptionUsecase(
			repos.RedemptionRepo,
			repos.CouponRepo,
			repos.IdentityRepo,
			repos.StoreRepo,
			dispatcher,
			engineMetrics,
		),
		GroupUsecase: usecase.NewDefaultGroupUsecase(
			repos.GroupRepo,
			repos.ActivityRepo,
			repos.StoreRepo,
			codes,
			dispatcher,
			engineMetrics,
			engine.CodeAttempts,
		),
		PresaleUsecase: usecase.NewDefaultPresaleUsecase(
			repos.PresaleRepo,
			repos.ActivityRepo,
			dispatcher,
			engineMetrics,
		),
		StoreUsecase:    usecase.NewDefaultStoreUsecase(repos.StoreRepo, repos.ActivityRepo, engine.NearbyDefaultLimit),
		ActivityUsecase: usecase.NewDefaultActivityUsecase(repos.ActivityRepo),
	}
}
