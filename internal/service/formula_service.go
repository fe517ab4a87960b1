package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"optimus-k/backend/internal/dto"
	"optimus-k/backend/internal/model"
	"optimus-k/backend/internal/planner"
	"optimus-k/backend/internal/repository"
	pkgerrors "optimus-k/backend/pkg/errors"
)

// ── 配额模块业务错误 ──

var (
	ErrOrganizationNotFound = errors.New("所属组织不存在")
)

// FormulaService 每周任务配额业务接口
type FormulaService interface {
	// Preview 按请求参数计算
	Preview(ctx context.Context, req *dto.FormulaPreviewRequest) (*dto.FormulaResponse, error)
	// PreviewForUser 按用户角色、周工时与所属组织的团队规模、方法论、当前阶段计算
	PreviewForUser(ctx context.Context, userID string) (*dto.FormulaResponse, error)
}

type formulaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFormulaService 创建 FormulaService 实例
func NewFormulaService(repo *repository.Repository, logger *zap.Logger) FormulaService {
	return &formulaService{repo: repo, logger: logger}
}

func (s *formulaService) Preview(_ context.Context, req *dto.FormulaPreviewRequest) (*dto.FormulaResponse, error) {
	return toFormulaResponse(planner.FormulaInput{
		Role:        req.Role,
		TeamSize:    req.TeamSize,
		Methodology: planner.Methodology(req.Methodology),
		Phase:       req.Phase,
		WeeklyHours: req.WeeklyHours,
	}), nil
}

func (s *formulaService) PreviewForUser(ctx context.Context, userID string) (*dto.FormulaResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		reqLogger(ctx, s.logger).Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	org := user.Organization
	if org == nil {
		org, err = s.loadOrganization(ctx, user.OrganizationID)
		if err != nil {
			return nil, err
		}
	}

	resp := toFormulaResponse(planner.FormulaInput{
		Role:        user.Role,
		TeamSize:    float64(org.TeamSize),
		Methodology: planner.Methodology(org.Methodology),
		Phase:       org.CurrentPhase,
		WeeklyHours: user.WeeklyHours,
	})
	reqLogger(ctx, s.logger).Debug("任务配额计算完成", zap.String("user_id", userID), zap.String("formula", resp.Formula), zap.Int("tasks", resp.Tasks))
	return resp, nil
}

func (s *formulaService) loadOrganization(ctx context.Context, id string) (*model.Organization, error) {
	org, err := s.repo.Organization.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrOrganizationNotFound
		}
		reqLogger(ctx, s.logger).Error("查询组织失败", zap.String("organization_id", id), zap.Error(err))
		return nil, err
	}
	return org, nil
}

func toFormulaResponse(in planner.FormulaInput) *dto.FormulaResponse {
	q := planner.CalculateQuota(in)
	return &dto.FormulaResponse{
		Tasks:   q.Tasks,
		Formula: q.Formula,
		Factors: dto.FormulaFactors{
			Role:     q.RoleFactor,
			TeamSize: q.TeamSizeFactor,
			Phase:    q.PhaseFactor,
			Hours:    q.HoursFactor,
		},
		Role:        in.Role,
		TeamSize:    in.TeamSize,
		Methodology: string(in.Methodology),
		Phase:       in.Phase,
		WeeklyHours: in.WeeklyHours,
	}
}
