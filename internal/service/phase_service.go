package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"optimus-k/backend/config"
	"optimus-k/backend/internal/dto"
	"optimus-k/backend/internal/model"
	"optimus-k/backend/internal/planner"
	"optimus-k/backend/internal/repository"
	pkgerrors "optimus-k/backend/pkg/errors"
)

// ── 阶段模块业务错误 ──

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrInvalidPhase       = errors.New("阶段编号必须为正整数")
	ErrPhaseNoTasks       = errors.New("该阶段暂无任务")
	ErrPhaseForbidden     = errors.New("只能查看本组织成员的阶段计划")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// PhaseService 阶段周计划业务接口
type PhaseService interface {
	// GetWeeklyProgress 当前用户该阶段任务按周分组及进度
	GetWeeklyProgress(ctx context.Context, userID string, phase int) (*dto.PhaseWeeklyResponse, error)
	// ExportPhasePlan 导出 targetID 的阶段计划为 Excel；targetID 为空时导出本人
	ExportPhasePlan(ctx context.Context, callerID, targetID string, phase int) (*bytes.Buffer, string, error)
}

type phaseService struct {
	repo     *repository.Repository
	capacity int
	logger   *zap.Logger
}

// NewPhaseService 创建 PhaseService 实例
func NewPhaseService(repo *repository.Repository, cfg config.PlannerConfig, logger *zap.Logger) PhaseService {
	return &phaseService{repo: repo, capacity: cfg.WeeklyCapacity, logger: logger}
}

// ────────────────────── GetWeeklyProgress ──────────────────────

func (s *phaseService) GetWeeklyProgress(ctx context.Context, userID string, phase int) (*dto.PhaseWeeklyResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := s.allocate(ctx, user, phase)
	if err != nil {
		return nil, err
	}
	return toPhaseWeeklyResponse(phase, data), nil
}

// ────────────────────── ExportPhasePlan ──────────────────────
//
// 输出格式：
//   - Sheet "概览"：每周任务数、完成数
//   - Sheet "第N周"：序号 / 任务 / 领域 / 描述 / 状态

func (s *phaseService) ExportPhasePlan(ctx context.Context, callerID, targetID string, phase int) (*bytes.Buffer, string, error) {
	if targetID == "" {
		targetID = callerID
	}
	target, err := s.loadUser(ctx, targetID)
	if err != nil {
		return nil, "", err
	}
	if targetID != callerID {
		caller, err := s.loadUser(ctx, callerID)
		if err != nil {
			return nil, "", err
		}
		if caller.OrganizationID != target.OrganizationID {
			return nil, "", ErrPhaseForbidden
		}
	}

	data, err := s.allocate(ctx, target, phase)
	if err != nil {
		return nil, "", err
	}
	if data.TotalTasks == 0 {
		return nil, "", ErrPhaseNoTasks
	}

	buf, err := buildPhaseWorkbook(target.Name, phase, data)
	if err != nil {
		reqLogger(ctx, s.logger).Error("写入 Excel 失败", zap.String("user_id", targetID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("阶段%d计划_%s.xlsx", phase, target.Name)
	return buf, filename, nil
}

// ── 内部 ──

func (s *phaseService) loadUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		reqLogger(ctx, s.logger).Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// allocate 加载任务与审批记录后按周切分
func (s *phaseService) allocate(ctx context.Context, user *model.User, phase int) (planner.PhaseWeeklyData, error) {
	if phase < 1 {
		return planner.PhaseWeeklyData{}, ErrInvalidPhase
	}

	rows, err := s.repo.PhaseTask.ListByUserAndPhase(ctx, user.OrganizationID, user.UserID, phase)
	if err != nil {
		reqLogger(ctx, s.logger).Error("查询阶段任务失败", zap.String("user_id", user.UserID), zap.Int("phase", phase), zap.Error(err))
		return planner.PhaseWeeklyData{}, err
	}

	ids := make([]string, 0, len(rows))
	tasks := make([]planner.Task, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.PhaseTaskID)
		tasks = append(tasks, planner.Task{
			ID:          r.PhaseTaskID,
			Title:       r.Title,
			Description: r.Description,
			Area:        r.Area,
			Phase:       r.Phase,
			OrderIndex:  r.OrderIndex,
		})
	}

	approved, err := s.repo.TaskValidation.ListApprovedTaskIDs(ctx, user.UserID, ids)
	if err != nil {
		reqLogger(ctx, s.logger).Error("查询任务审批记录失败", zap.String("user_id", user.UserID), zap.Error(err))
		return planner.PhaseWeeklyData{}, err
	}
	completed := make(map[string]bool, len(approved))
	for _, id := range approved {
		completed[id] = true
	}

	return planner.AllocateWeeks(tasks, completed, s.capacity), nil
}

func toPhaseWeeklyResponse(phase int, data planner.PhaseWeeklyData) *dto.PhaseWeeklyResponse {
	resp := &dto.PhaseWeeklyResponse{
		Phase:           phase,
		TotalTasks:      data.TotalTasks,
		TotalWeeks:      data.TotalWeeks,
		CurrentWeek:     data.CurrentWeek,
		CompletedTasks:  data.CompletedTasks,
		ProgressPercent: data.ProgressPercent,
		Weeks:           make(map[int][]dto.PhaseTaskResponse, len(data.Weeks)),
		Summaries:       make([]dto.WeekSummaryResponse, 0, len(data.Summaries)),
	}
	for week, tasks := range data.Weeks {
		list := make([]dto.PhaseTaskResponse, 0, len(tasks))
		for _, t := range tasks {
			list = append(list, dto.PhaseTaskResponse{
				ID:          t.ID,
				Title:       t.Title,
				Description: t.Description,
				Area:        t.Area,
				OrderIndex:  t.OrderIndex,
				Completed:   t.Completed,
			})
		}
		resp.Weeks[week] = list
	}
	for _, sum := range data.Summaries {
		resp.Summaries = append(resp.Summaries, dto.WeekSummaryResponse{
			Week:      sum.Week,
			Total:     sum.Total,
			Completed: sum.Completed,
			Done:      sum.Done,
		})
	}
	return resp
}

// buildPhaseWorkbook 生成阶段计划工作簿
func buildPhaseWorkbook(owner string, phase int, data planner.PhaseWeeklyData) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	doneStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#548235"},
	})
	if err != nil {
		return nil, err
	}

	// 概览
	const overview = "概览"
	if err := f.SetSheetName("Sheet1", overview); err != nil {
		return nil, err
	}
	f.SetCellValue(overview, "A1", fmt.Sprintf("%s · 阶段 %d", owner, phase))
	f.MergeCell(overview, "A1", "D1")
	f.SetCellStyle(overview, "A1", "D1", headerStyle)
	f.SetSheetRow(overview, "A2", &[]interface{}{"周次", "任务数", "已完成", "状态"})
	for i, sum := range data.Summaries {
		status := "进行中"
		if sum.Done {
			status = "已完成"
		} else if sum.Week > data.CurrentWeek {
			status = "未开始"
		}
		f.SetSheetRow(overview, cell("A", i+3), &[]interface{}{fmt.Sprintf("第%d周", sum.Week), sum.Total, sum.Completed, status})
	}
	summaryRow := len(data.Summaries) + 4
	f.SetCellValue(overview, cell("A", summaryRow), "总进度")
	f.SetCellValue(overview, cell("B", summaryRow), fmt.Sprintf("%d%%", data.ProgressPercent))
	f.SetColWidth(overview, "A", "D", 14)

	// 每周一个 Sheet
	for week := 1; week <= data.TotalWeeks; week++ {
		sheet := fmt.Sprintf("第%d周", week)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		f.SetSheetRow(sheet, "A1", &[]interface{}{"序号", "任务", "领域", "描述", "状态"})
		f.SetCellStyle(sheet, "A1", "E1", headerStyle)
		f.SetColWidth(sheet, "A", "A", 6)
		f.SetColWidth(sheet, "B", "B", 36)
		f.SetColWidth(sheet, "C", "C", 14)
		f.SetColWidth(sheet, "D", "D", 48)
		f.SetColWidth(sheet, "E", "E", 10)

		for i, t := range data.Weeks[week] {
			row := i + 2
			status := "待完成"
			if t.Completed {
				status = "已完成"
			}
			f.SetSheetRow(sheet, cell("A", row), &[]interface{}{i + 1, t.Title, t.Area, t.Description, status})
			if t.Completed {
				f.SetCellStyle(sheet, cell("E", row), cell("E", row), doneStyle)
			}
		}
	}
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
