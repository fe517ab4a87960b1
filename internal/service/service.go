package service

import (
	"context"

	"go.uber.org/zap"

	"optimus-k/backend/config"
	"optimus-k/backend/internal/repository"
	applogger "optimus-k/backend/pkg/logger"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Availability AvailabilityService
	Slot         SlotService
	Phase        PhaseService
	Formula      FormulaService
	Session      SessionService
}

// NewService 创建 Service 聚合
// revoker 为 nil（Redis 不可用）时传入无类型 nil
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	revoker TokenRevoker,
	logger *zap.Logger,
) *Service {
	loc := cfg.Server.Location()
	return &Service{
		Availability: NewAvailabilityService(repo, loc, logger),
		Slot:         NewSlotService(repo, cfg.Planner, loc, logger),
		Phase:        NewPhaseService(repo, cfg.Planner, logger),
		Formula:      NewFormulaService(repo, logger),
		Session:      NewSessionService(revoker, logger),
	}
}

// reqLogger 优先使用请求级 logger（携带 request_id）
func reqLogger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	return applogger.FromContext(ctx, fallback)
}
