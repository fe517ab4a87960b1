package planner

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock 一天内的时刻，单位：自零点起的分钟数
type Clock int

// MinutesPerDay 一天的分钟数
const MinutesPerDay = 24 * 60

// ParseClock 解析 "HH:MM" 或 "HH:MM:SS"（PostgreSQL time 列返回带秒格式）
// 各段只接受 1~2 位数字；24:00 仅允许秒为 0
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("无效的时间格式 %q", s)
	}
	h, ok := clockField(parts[0], 24)
	if !ok {
		return 0, fmt.Errorf("无效的小时 %q", s)
	}
	m, ok := clockField(parts[1], 59)
	if !ok {
		return 0, fmt.Errorf("无效的分钟 %q", s)
	}
	sec := 0
	if len(parts) == 3 {
		if sec, ok = clockField(parts[2], 59); !ok {
			return 0, fmt.Errorf("无效的秒 %q", s)
		}
	}
	c := Clock(h*60 + m)
	if c > MinutesPerDay || (c == MinutesPerDay && sec > 0) {
		return 0, fmt.Errorf("时间超出范围 %q", s)
	}
	return c, nil
}

// clockField 解析 1~2 位纯数字字段，拒绝符号与空白
func clockField(f string, max int) (int, bool) {
	if len(f) == 0 || len(f) > 2 {
		return 0, false
	}
	for _, r := range f {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(f)
	if err != nil || n > max {
		return 0, false
	}
	return n, true
}

// MustClock 仅用于测试与静态数据
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String 格式化为 HH:MM
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Add 增加一段时长（按分钟截断）
func (c Clock) Add(d time.Duration) Clock {
	return c + Clock(d/time.Minute)
}

// Overlaps 半开区间 [s1,e1) 与 [s2,e2) 是否重叠
func Overlaps(s1, e1, s2, e2 Clock) bool {
	return s1 < e2 && s2 < e1
}
