package saju

import (
	"fmt"
	"strings"
	"time"
)

// Calendar converts a solar date into a lunar date. Implementations must be
// pure functions of their arguments and must not panic on impossible dates.
type Calendar interface {
	SolarToLunar(year, month, day int) LunarDate
}

// CalendarFunc adapts a function to Calendar.
type CalendarFunc func(year, month, day int) LunarDate

// SolarToLunar implements Calendar.
func (f CalendarFunc) SolarToLunar(year, month, day int) LunarDate {
	return f(year, month, day)
}

const (
	CalendarIdentity = "identity"
	CalendarLunar    = "lunar"
)

// CalendarByName returns the calendar registered under name.
func CalendarByName(name string) (Calendar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CalendarIdentity:
		return IdentityCalendar{}, nil
	case CalendarLunar:
		return LunarCalendar{}, nil
	default:
		return nil, fmt.Errorf("saju: unknown calendar %q", name)
	}
}

// IdentityCalendar returns the solar date unchanged. It is the default
// because existing result URLs were derived with it.
type IdentityCalendar struct{}

// SolarToLunar implements Calendar.
func (IdentityCalendar) SolarToLunar(year, month, day int) LunarDate {
	return LunarDate{Year: year, Month: month, Day: day}
}

// LunarCalendar converts with the month-length table for lunar years
// 1900–2100. Dates outside the table fall back to IdentityCalendar.
type LunarCalendar struct{}

// Each entry encodes one lunar year:
//
//	bits 0-3   leap month number (0 = none)
//	bits 4-15  months 12..1, set = 30 days, clear = 29 days
//	bit 16     leap month has 30 days
var lunarYearInfo = [...]int{
	0x04bd8, 0x04ae0, 0x0a570, 0x054d5, 0x0d260, 0x0d950, 0x16554, 0x056a0, 0x09ad0, 0x055d2, // 1900
	0x04ae0, 0x0a5b6, 0x0a4d0, 0x0d250, 0x1d255, 0x0b540, 0x0d6a0, 0x0ada2, 0x095b0, 0x14977, // 1910
	0x04970, 0x0a4b0, 0x0b4b5, 0x06a50, 0x06d40, 0x1ab54, 0x02b60, 0x09570, 0x052f2, 0x04970, // 1920
	0x06566, 0x0d4a0, 0x0ea50, 0x16a95, 0x05ad0, 0x02b60, 0x186e3, 0x092e0, 0x1c8d7, 0x0c950, // 1930
	0x0d4a0, 0x1d8a6, 0x0b550, 0x056a0, 0x1a5b4, 0x025d0, 0x092d0, 0x0d2b2, 0x0a950, 0x0b557, // 1940
	0x06ca0, 0x0b550, 0x15355, 0x04da0, 0x0a5b0, 0x14573, 0x052b0, 0x0a9a8, 0x0e950, 0x06aa0, // 1950
	0x0aea6, 0x0ab50, 0x04b60, 0x0aae4, 0x0a570, 0x05260, 0x0f263, 0x0d950, 0x05b57, 0x056a0, // 1960
	0x096d0, 0x04dd5, 0x04ad0, 0x0a4d0, 0x0d4d4, 0x0d250, 0x0d558, 0x0b540, 0x0b6a0, 0x195a6, // 1970
	0x095b0, 0x049b0, 0x0a974, 0x0a4b0, 0x0b27a, 0x06a50, 0x06d40, 0x0af46, 0x0ab60, 0x09570, // 1980
	0x04af5, 0x04970, 0x064b0, 0x074a3, 0x0ea50, 0x06b58, 0x05ac0, 0x0ab60, 0x096d5, 0x092e0, // 1990
	0x0c960, 0x0d954, 0x0d4a0, 0x0da50, 0x07552, 0x056a0, 0x0abb7, 0x025d0, 0x092d0, 0x0cab5, // 2000
	0x0a950, 0x0b4a0, 0x0baa4, 0x0ad50, 0x055d9, 0x04ba0, 0x0a5b0, 0x15176, 0x052b0, 0x0a930, // 2010
	0x07954, 0x06aa0, 0x0ad50, 0x05b52, 0x04b60, 0x0a6e6, 0x0a4e0, 0x0d260, 0x0ea65, 0x0d530, // 2020
	0x05aa0, 0x076a3, 0x096d0, 0x04afb, 0x04ad0, 0x0a4d0, 0x1d0b6, 0x0d250, 0x0d520, 0x0dd45, // 2030
	0x0b5a0, 0x056d0, 0x055b2, 0x049b0, 0x0a577, 0x0a4b0, 0x0aa50, 0x1b255, 0x06d20, 0x0ada0, // 2040
	0x14b63, 0x09370, 0x049f8, 0x04970, 0x064b0, 0x168a6, 0x0ea50, 0x06b20, 0x1a6c4, 0x0aae0, // 2050
	0x0a2e0, 0x0d2e3, 0x0c960, 0x0d557, 0x0d4a0, 0x0da50, 0x05d55, 0x056a0, 0x0a6d0, 0x055d4, // 2060
	0x052d0, 0x0a9b8, 0x0a950, 0x0b4a0, 0x0b6a6, 0x0ad50, 0x055a0, 0x0aba4, 0x0a5b0, 0x052b0, // 2070
	0x0b273, 0x06930, 0x07337, 0x06aa0, 0x0ad50, 0x14b55, 0x04b60, 0x0a570, 0x054e4, 0x0d160, // 2080
	0x0e968, 0x0d520, 0x0daa0, 0x16aa6, 0x056d0, 0x04ae0, 0x0a9d4, 0x0a2d0, 0x0d150, 0x0f252, // 2090
	0x0d520, // 2100
}

const lunarFirstYear = 1900

// lunarEpoch is solar 1900-01-31, lunar 1900-01-01.
var lunarEpoch = time.Date(1900, time.January, 31, 0, 0, 0, 0, time.UTC)

// SolarToLunar implements Calendar.
func (LunarCalendar) SolarToLunar(year, month, day int) LunarDate {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return IdentityCalendar{}.SolarToLunar(year, month, day)
	}
	solar := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	offset := int((solar.Unix() - lunarEpoch.Unix()) / 86400)
	if offset < 0 {
		return IdentityCalendar{}.SolarToLunar(year, month, day)
	}

	lastYear := lunarFirstYear + len(lunarYearInfo) - 1
	ly := lunarFirstYear
	for ; ly <= lastYear; ly++ {
		n := lunarYearDays(ly)
		if offset < n {
			break
		}
		offset -= n
	}
	if ly > lastYear {
		return IdentityCalendar{}.SolarToLunar(year, month, day)
	}

	leap := lunarLeapMonth(ly)
	lm := 1
	inLeap := false
	for {
		n := lunarMonthDays(ly, lm)
		if inLeap {
			n = lunarLeapDays(ly)
		}
		if offset < n {
			break
		}
		offset -= n
		// The leap month follows the regular month with the same number.
		if !inLeap && lm == leap {
			inLeap = true
		} else {
			inLeap = false
			lm++
		}
	}
	return LunarDate{Year: ly, Month: lm, Day: offset + 1, LeapMonth: inLeap}
}

func lunarInfo(year int) int {
	return lunarYearInfo[year-lunarFirstYear]
}

func lunarLeapMonth(year int) int {
	return lunarInfo(year) & 0xf
}

func lunarLeapDays(year int) int {
	if lunarLeapMonth(year) == 0 {
		return 0
	}
	if lunarInfo(year)&0x10000 != 0 {
		return 30
	}
	return 29
}

func lunarMonthDays(year, month int) int {
	if lunarInfo(year)&(0x10000>>month) != 0 {
		return 30
	}
	return 29
}

func lunarYearDays(year int) int {
	total := lunarLeapDays(year)
	for m := 1; m <= 12; m++ {
		total += lunarMonthDays(year, m)
	}
	return total
}
