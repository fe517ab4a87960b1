package planner

import (
	"math"
	"strconv"
	"strings"
)

// ── 角色任务配额公式 ──
//
// quota = round(BASE × role × teamSize × phase × hours)，再夹到 [MinQuota, MaxQuota]。
// 仅用于规划预览，正式生成任务数在别处决定。

const (
	BaseTasksPerWeek = 4
	MinQuota         = 3
	MaxQuota         = 20
)

// Methodology 组织采用的方法论
type Methodology string

const (
	MethodologyLeanStartup Methodology = "lean_startup"
	MethodologyTraditional Methodology = "traditional"
)

// Valid 是否为已知方法论
func (m Methodology) Valid() bool {
	return m == MethodologyLeanStartup || m == MethodologyTraditional
}

const generalRole = "general"

var roleFactors = map[string]float64{
	"ceo":        1.2,
	"cto":        1.3,
	"coo":        1.2,
	"cfo":        1.1,
	"cmo":        1.1,
	"founder":    1.2,
	"manager":    1.1,
	"developer":  1.0,
	"designer":   1.0,
	"sales":      0.9,
	"marketing":  0.9,
	"operations": 1.0,
	"intern":     0.7,
	generalRole:  1.0,
}

var phaseFactors = map[Methodology]map[int]float64{
	MethodologyLeanStartup: {
		1: 1.0,
		2: 1.2,
		3: 1.1,
		4: 0.9,
		5: 0.8,
	},
	MethodologyTraditional: {
		1: 0.9,
		2: 1.0,
		3: 1.1,
		4: 1.2,
		5: 1.0,
	},
}

// RoleFactor 未知角色回落到 general
func RoleFactor(role string) float64 {
	if f, ok := roleFactors[strings.ToLower(strings.TrimSpace(role))]; ok {
		return f
	}
	return roleFactors[generalRole]
}

// TeamSizeFactor 团队规模分档；NaN 与非正数归入最低档（单人）
func TeamSizeFactor(size float64) float64 {
	switch {
	case math.IsNaN(size) || size <= 1:
		return 1.3
	case size <= 5:
		return 1.0
	case size <= 10:
		return 0.9
	case size <= 20:
		return 0.85
	}
	return 0.8
}

// PhaseFactor 未知方法论或阶段回落到 1.0
func PhaseFactor(m Methodology, phase int) float64 {
	if f, ok := phaseFactors[m][phase]; ok {
		return f
	}
	return 1.0
}

// HoursFactor 每周投入小时分档；NaN 归入最低档
func HoursFactor(hours float64) float64 {
	switch {
	case math.IsNaN(hours):
		return 0.4
	case hours >= 40:
		return 1.2
	case hours >= 30:
		return 1.0
	case hours >= 20:
		return 0.8
	case hours >= 10:
		return 0.6
	}
	return 0.4
}

// FormulaInput 公式输入
type FormulaInput struct {
	Role        string
	TeamSize    float64
	Methodology Methodology
	Phase       int
	WeeklyHours float64
}

// Quota 公式结果
type Quota struct {
	Tasks          int
	Formula        string
	RoleFactor     float64
	TeamSizeFactor float64
	PhaseFactor    float64
	HoursFactor    float64
}

// CalculateQuota 计算每周任务配额
func CalculateQuota(in FormulaInput) Quota {
	q := Quota{
		RoleFactor:     RoleFactor(in.Role),
		TeamSizeFactor: TeamSizeFactor(in.TeamSize),
		PhaseFactor:    PhaseFactor(in.Methodology, in.Phase),
		HoursFactor:    HoursFactor(in.WeeklyHours),
	}

	raw := BaseTasksPerWeek * q.RoleFactor * q.TeamSizeFactor * q.PhaseFactor * q.HoursFactor
	tasks := int(math.Round(raw))
	q.Tasks = min(max(tasks, MinQuota), MaxQuota)

	q.Formula = strings.Join([]string{
		strconv.Itoa(BaseTasksPerWeek),
		formatFactor(q.RoleFactor),
		formatFactor(q.TeamSizeFactor),
		formatFactor(q.PhaseFactor),
		formatFactor(q.HoursFactor),
	}, " × ")
	return q
}

func formatFactor(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
