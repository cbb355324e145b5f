package models

// Schedule types understood by the remote API.
const (
	ScheduleDaily  = "daily"
	ScheduleWeekly = "weekly"
	ScheduleOnce   = "once"
)

// SlotCount is the fixed number of schedule slots the panel always shows.
const SlotCount = 7

// Default time window for synthesized slots: 09:00–15:00.
const (
	DefaultStartMin = 540
	DefaultEndMin   = 900
)

// ScheduleSlot is one of the 7 timed AC programs. Times are absolute
// minute-of-day in [0, 1439]. The server owns Summary after any write.
type ScheduleSlot struct {
	ID           string `json:"id"`
	Enabled      bool   `json:"enabled"`
	Power        string `json:"power"`
	Mode         string `json:"mode"`
	Temp         int    `json:"temp"`
	ScheduleType string `json:"schedule_type"` // daily | weekly | once
	Date         string `json:"date,omitempty"`
	Weekday      *int   `json:"weekday,omitempty"` // 0..6, weekly only
	StartTimeMin int    `json:"start_time_min"`
	EndTimeMin   int    `json:"end_time_min"`
	Summary      string `json:"summary"`
}

// SchedulePatch is a partial slot update sent to the remote API. Nil fields
// are omitted from the PUT body.
type SchedulePatch struct {
	Enabled      *bool   `json:"enabled,omitempty"`
	Power        *string `json:"power,omitempty"`
	Mode         *string `json:"mode,omitempty"`
	Temp         *int    `json:"temp,omitempty"`
	ScheduleType *string `json:"schedule_type,omitempty"`
	Date         *string `json:"date,omitempty"`
	Weekday      *int    `json:"weekday,omitempty"`
	StartTimeMin *int    `json:"start_time_min,omitempty"`
	EndTimeMin   *int    `json:"end_time_min,omitempty"`
}

// DefaultSlot synthesizes the slot shown when the server returned fewer than
// SlotCount entries: disabled, daily, 09:00–15:00, cool at 24°C.
func DefaultSlot(id string) ScheduleSlot {
	return ScheduleSlot{
		ID:           id,
		Enabled:      false,
		Power:        "on",
		Mode:         ModeCool,
		Temp:         24,
		ScheduleType: ScheduleDaily,
		StartTimeMin: DefaultStartMin,
		EndTimeMin:   DefaultEndMin,
	}
}

// ClockTime is the 12-hour edit-surface representation of a minute-of-day.
type ClockTime struct {
	AmPm   string `json:"ampm"` // am | pm
	Hour   int    `json:"hour"` // 1..12
	Minute int    `json:"minute"`
}

// MinuteOfDay converts a 12-hour clock value to an absolute minute-of-day,
// clamped into [0, 1439]. 12 AM maps to hour 0, PM adds 12 except for 12 PM.
func MinuteOfDay(ct ClockTime) int {
	h := ct.Hour
	if ct.AmPm == "am" {
		if h == 12 {
			h = 0
		}
	} else if h != 12 {
		h += 12
	}
	m := h*60 + ct.Minute
	if m < 0 {
		return 0
	}
	if m > 1439 {
		return 1439
	}
	return m
}

// ClockFromMinute converts a minute-of-day back to the edit surface. Minutes
// are floored to the 10-minute grid the chips offer, so values on that grid
// round-trip through MinuteOfDay exactly.
func ClockFromMinute(min int) ClockTime {
	if min < 0 {
		min = 0
	}
	if min > 1439 {
		min = 1439
	}
	h24 := min / 60
	m := (min % 60) / 10 * 10

	ct := ClockTime{Minute: m}
	if h24 < 12 {
		ct.AmPm = "am"
	} else {
		ct.AmPm = "pm"
	}
	ct.Hour = h24 % 12
	if ct.Hour == 0 {
		ct.Hour = 12
	}
	return ct
}
