package model

import "gorm.io/datatypes"

// WeeklyAvailability 每周空闲声明表 — 对应 weekly_availabilities
//
// 每行对应 (user_id, week_start) 唯一；不可用的日期 start/end 为 NULL。
type WeeklyAvailability struct {
	AvailabilityID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"availability_id"`
	UserID         string         `gorm:"type:uuid;not null"                             json:"user_id"`
	WeekStart      datatypes.Date `gorm:"type:date;not null"                             json:"week_start"`

	MondayAvailable    bool    `gorm:"not null;default:false" json:"monday_available"`
	MondayStart        *string `gorm:"type:time"              json:"monday_start,omitempty"`
	MondayEnd          *string `gorm:"type:time"              json:"monday_end,omitempty"`
	TuesdayAvailable   bool    `gorm:"not null;default:false" json:"tuesday_available"`
	TuesdayStart       *string `gorm:"type:time"              json:"tuesday_start,omitempty"`
	TuesdayEnd         *string `gorm:"type:time"              json:"tuesday_end,omitempty"`
	WednesdayAvailable bool    `gorm:"not null;default:false" json:"wednesday_available"`
	WednesdayStart     *string `gorm:"type:time"              json:"wednesday_start,omitempty"`
	WednesdayEnd       *string `gorm:"type:time"              json:"wednesday_end,omitempty"`
	ThursdayAvailable  bool    `gorm:"not null;default:false" json:"thursday_available"`
	ThursdayStart      *string `gorm:"type:time"              json:"thursday_start,omitempty"`
	ThursdayEnd        *string `gorm:"type:time"              json:"thursday_end,omitempty"`
	FridayAvailable    bool    `gorm:"not null;default:false" json:"friday_available"`
	FridayStart        *string `gorm:"type:time"              json:"friday_start,omitempty"`
	FridayEnd          *string `gorm:"type:time"              json:"friday_end,omitempty"`
	SaturdayAvailable  bool    `gorm:"not null;default:false" json:"saturday_available"`
	SaturdayStart      *string `gorm:"type:time"              json:"saturday_start,omitempty"`
	SaturdayEnd        *string `gorm:"type:time"              json:"saturday_end,omitempty"`
	SundayAvailable    bool    `gorm:"not null;default:false" json:"sunday_available"`
	SundayStart        *string `gorm:"type:time"              json:"sunday_start,omitempty"`
	SundayEnd          *string `gorm:"type:time"              json:"sunday_end,omitempty"`

	BaseModel
}

// TableName 指定表名
func (WeeklyAvailability) TableName() string { return "weekly_availabilities" }

// DayColumns 单日的三列
type DayColumns struct {
	Available bool
	Start     *string
	End       *string
}

// Days 按周一到周日返回七天的列值
func (w *WeeklyAvailability) Days() [7]DayColumns {
	return [7]DayColumns{
		{w.MondayAvailable, w.MondayStart, w.MondayEnd},
		{w.TuesdayAvailable, w.TuesdayStart, w.TuesdayEnd},
		{w.WednesdayAvailable, w.WednesdayStart, w.WednesdayEnd},
		{w.ThursdayAvailable, w.ThursdayStart, w.ThursdayEnd},
		{w.FridayAvailable, w.FridayStart, w.FridayEnd},
		{w.SaturdayAvailable, w.SaturdayStart, w.SaturdayEnd},
		{w.SundayAvailable, w.SundayStart, w.SundayEnd},
	}
}

// SetDays 按周一到周日写回七天的列值
func (w *WeeklyAvailability) SetDays(days [7]DayColumns) {
	w.MondayAvailable, w.MondayStart, w.MondayEnd = days[0].Available, days[0].Start, days[0].End
	w.TuesdayAvailable, w.TuesdayStart, w.TuesdayEnd = days[1].Available, days[1].Start, days[1].End
	w.WednesdayAvailable, w.WednesdayStart, w.WednesdayEnd = days[2].Available, days[2].Start, days[2].End
	w.ThursdayAvailable, w.ThursdayStart, w.ThursdayEnd = days[3].Available, days[3].Start, days[3].End
	w.FridayAvailable, w.FridayStart, w.FridayEnd = days[4].Available, days[4].Start, days[4].End
	w.SaturdayAvailable, w.SaturdayStart, w.SaturdayEnd = days[5].Available, days[5].Start, days[5].End
	w.SundayAvailable, w.SundayStart, w.SundayEnd = days[6].Available, days[6].Start, days[6].End
}
