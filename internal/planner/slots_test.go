package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var week = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // 周一

func day(offset int) time.Time { return week.AddDate(0, 0, offset) }

func windows(from, to string, days ...int) [DaysPerWeek]DayWindow {
	var out [DaysPerWeek]DayWindow
	for _, d := range days {
		out[d] = DayWindow{Available: true, Start: MustClock(from), End: MustClock(to)}
	}
	return out
}

func booking(id, user string, offset int, from, to string) Booking {
	return Booking{ID: id, UserID: user, Date: day(offset), Start: MustClock(from), End: MustClock(to)}
}

func unlimited() FinderOptions {
	o := DefaultFinderOptions()
	o.AvailableLimit = 1000
	o.UnavailableLimit = 1000
	return o
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, Clock(570), c)

	c, err = ParseClock("17:00:00")
	require.NoError(t, err)
	assert.Equal(t, "17:00", c.String())

	c, err = ParseClock("24:00:00")
	require.NoError(t, err)
	assert.Equal(t, Clock(MinutesPerDay), c)

	for _, bad := range []string{
		"", "9", "25:00", "10:75", "aa:bb", "24:30",
		"09:00:xx", "09:00:60", "-0:30", "+9:00", "09:+5", "09: 5", "009:00", "24:00:01", "09:00:00:00",
	} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	assert.True(t, Overlaps(60, 120, 90, 150))
	assert.False(t, Overlaps(60, 120, 120, 180), "相邻区间不重叠")
	assert.True(t, Overlaps(60, 180, 90, 100))
}

func TestFindSlots_CollaboratorIntersection(t *testing.T) {
	q := SlotQuery{
		Primary:      WeekAvailability{UserID: "u1", WeekStart: week, Days: windows("09:00", "17:00", 0, 1, 2, 3, 4)},
		Collaborator: &WeekAvailability{UserID: "u2", WeekStart: week, Days: windows("10:00", "14:00", 0, 1, 2)},
		Duration:     time.Hour,
	}

	got := FindSlots(q, unlimited())
	require.NotEmpty(t, got)

	seen := map[int]bool{}
	for _, c := range got {
		assert.True(t, c.Available)
		idx := WeekdayIndex(c.Date)
		seen[idx] = true
		assert.LessOrEqual(t, idx, 2, "周四周五不应出现")
		assert.GreaterOrEqual(t, c.Start, MustClock("10:00"))
		assert.LessOrEqual(t, c.End, MustClock("14:00"))
		assert.Equal(t, Clock(60), c.End-c.Start)
	}
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, seen)
	// 10:00-14:00 窗口，1 小时时长，30 分钟步长 → 每天 7 个
	assert.Len(t, got, 21)
	assert.Equal(t, "周一", got[0].DayName)
}

func TestFindSlots_DefaultLimits(t *testing.T) {
	q := SlotQuery{
		Primary:  WeekAvailability{UserID: "u1", WeekStart: week, Days: windows("09:00", "17:00", 0, 1, 2, 3, 4)},
		Duration: time.Hour,
		Bookings: []Booking{
			booking("b1", "u1", 0, "09:00", "11:00"),
			booking("b2", "u1", 1, "12:00", "13:00"),
		},
	}

	got := FindSlots(q, DefaultFinderOptions())
	require.Len(t, got, 7)

	for i, c := range got {
		if i < 5 {
			assert.True(t, c.Available, "前 5 个应为可用")
		} else {
			assert.False(t, c.Available, "后 2 个应为冲突")
			assert.Equal(t, ConflictPrimary, c.Conflict)
			assert.Equal(t, "primary user busy", c.ConflictReason)
		}
	}
	// 周一 09:00 ~ 10:30 开始的候选均与 b1 冲突，第一个可用为 11:00
	assert.Equal(t, "11:00", got[0].Start.String())
	assert.Equal(t, "09:00", got[5].Start.String())
	assert.Equal(t, "09:30", got[6].Start.String())
}

func TestFindSlots_SortedAvailableFirstThenDateThenStart(t *testing.T) {
	q := SlotQuery{
		Primary:  WeekAvailability{UserID: "u1", WeekStart: week, Days: windows("09:00", "12:00", 0, 1, 2)},
		Duration: 90 * time.Minute,
		Bookings: []Booking{booking("b1", "u1", 1, "09:00", "12:00")},
	}

	got := FindSlots(q, unlimited())
	require.NotEmpty(t, got)

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.Available != cur.Available {
			assert.True(t, prev.Available)
			continue
		}
		if prev.Date.Equal(cur.Date) {
			assert.Less(t, prev.Start, cur.Start)
		} else {
			assert.True(t, prev.Date.Before(cur.Date))
		}
	}
}

func TestFindSlots_NoAvailableSlotOverlapsBooking(t *testing.T) {
	bookings := []Booking{
		booking("b1", "u1", 0, "10:15", "11:00"),
		booking("b2", "u2", 0, "13:00", "13:30"),
		booking("b3", "u2", 2, "09:00", "17:00"),
	}
	q := SlotQuery{
		Primary:      WeekAvailability{UserID: "u1", WeekStart: week, Days: windows("09:00", "17:00", 0, 1, 2)},
		Collaborator: &WeekAvailability{UserID: "u2", WeekStart: week, Days: windows("09:00", "17:00", 0, 1, 2)},
		Duration:     45 * time.Minute,
		Bookings:     bookings,
	}

	for _, c := range FindSlots(q, unlimited()) {
		if !c.Available {
			continue
		}
		for _, b := range bookings {
			if sameDate(b.Date, c.Date) {
				assert.False(t, Overlaps(c.Start, c.End, b.Start, b.End), "%s %s 与 %s 重叠", c.DayName, c.Start, b.ID)
			}
		}
	}
}

func TestFindSlots_ConflictAttribution(t *testing.T) {
	q := SlotQuery{
		Primary:      WeekAvailability{UserID: "u1", WeekStart: week, Days: windows("09:00", "10:00", 0)},
		Collaborator: &WeekAvailability{UserID: "u2", WeekStart: week, Days: windows("09:00", "10:00", 0)},
		Duration:     time.Hour,
	}

	cases := []struct {
		name     string
		bookings []Booking
		want     ConflictKind
	}{
		{"primary", []Booking{booking("b1", "u1", 0, "09:00", "09:30")}, ConflictPrimary},
		{"collaborator", []Booking{booking("b1", "u2", 0, "09:30", "10:00")}, ConflictCollaborator},
		{"both", []Booking{booking("b1", "u1", 0, "09:00", "09:30"), booking("b2", "u2", 0, "09:45", "11:00")}, ConflictBoth},
		{"other user ignored", []Booking{booking("b1", "u3", 0, "09:00", "10:00")}, ConflictNone},
		{"other day ignored", []Booking{booking("b1", "u1", 1, "09:00", "10:00")}, ConflictNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q.Bookings = tc.bookings
			got := FindSlots(q, unlimited())
			require.Len(t, got, 1)
			assert.Equal(t, tc.want, got[0].Conflict)
			assert.Equal(t, tc.want == ConflictNone, got[0].Available)
			assert.Equal(t, tc.want.Reason(), got[0].ConflictReason)
		})
	}
}

func TestFindSlots_ExcludeSelf(t *testing.T) {
	q := SlotQuery{
		Primary:   WeekAvailability{UserID: "u1", WeekStart: week, Days: windows("09:00", "10:00", 0)},
		Duration:  time.Hour,
		Bookings:  []Booking{booking("self", "u1", 0, "09:00", "10:00")},
		ExcludeID: "self",
	}
	got := FindSlots(q, DefaultFinderOptions())
	require.Len(t, got, 1)
	assert.True(t, got[0].Available)
}

func TestFindSlots_CollaboratorWithoutAvailability(t *testing.T) {
	q := SlotQuery{
		Primary:        WeekAvailability{UserID: "u1", WeekStart: week, Days: windows("09:00", "17:00", 0, 1, 2, 3, 4)},
		CollaboratorID: "u2",
		Duration:       time.Hour,
	}
	assert.Empty(t, FindSlots(q, DefaultFinderOptions()))
}

func TestFindSlots_PerDayCap(t *testing.T) {
	q := SlotQuery{
		Primary:  WeekAvailability{UserID: "u1", WeekStart: week, Days: windows("00:00", "23:00", 0)},
		Duration: 30 * time.Minute,
	}
	assert.Len(t, FindSlots(q, unlimited()), 10)

	opts := unlimited()
	opts.MaxPerDay = 3
	assert.Len(t, FindSlots(q, opts), 3)
}

func TestFindSlots_DegenerateInputs(t *testing.T) {
	base := WeekAvailability{UserID: "u1", WeekStart: week, Days: windows("09:00", "10:00", 0)}

	assert.Empty(t, FindSlots(SlotQuery{Primary: base, Duration: 0}, DefaultFinderOptions()))
	assert.Empty(t, FindSlots(SlotQuery{Primary: base, Duration: -time.Hour}, DefaultFinderOptions()))
	assert.Empty(t, FindSlots(SlotQuery{Primary: base, Duration: 2 * time.Hour}, DefaultFinderOptions()), "窗口短于时长")

	inverted := WeekAvailability{UserID: "u1", WeekStart: week}
	inverted.Days[0] = DayWindow{Available: true, Start: MustClock("12:00"), End: MustClock("09:00")}
	assert.Empty(t, FindSlots(SlotQuery{Primary: inverted, Duration: time.Hour}, DefaultFinderOptions()))
}

func TestFindSlots_WeekStartNotMonday(t *testing.T) {
	// 周三开始的一周仍按星期取窗口
	wed := day(2)
	q := SlotQuery{
		Primary:  WeekAvailability{UserID: "u1", WeekStart: wed, Days: windows("09:00", "10:00", 0)},
		Duration: time.Hour,
	}
	got := FindSlots(q, DefaultFinderOptions())
	require.Len(t, got, 1)
	assert.Equal(t, time.Monday, got[0].Date.Weekday())
	assert.True(t, day(7).Equal(got[0].Date))
}

func TestConflicts(t *testing.T) {
	bookings := []Booking{
		booking("b1", "u1", 0, "09:00", "10:00"),
		booking("b2", "u1", 0, "10:00", "11:00"),
		booking("b3", "u2", 0, "09:00", "11:00"),
	}
	hits := Conflicts(bookings, "u1", day(0), MustClock("09:30"), MustClock("10:30"), "")
	assert.Len(t, hits, 2)

	hits = Conflicts(bookings, "u1", day(0), MustClock("09:30"), MustClock("10:30"), "b2")
	require.Len(t, hits, 1)
	assert.Equal(t, "b1", hits[0].ID)

	assert.Nil(t, Conflicts(bookings, "", day(0), 0, MinutesPerDay, ""))
}
