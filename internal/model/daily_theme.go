package model

import (
	"strings"
	"time"
)

// WeekendThemeKey is the fallback theme key for Saturday and Sunday.
const WeekendThemeKey = "weekend"

// DailyTheme highlights tasks that fit the focus of a given day.
type DailyTheme struct {
	Day         string   `json:"day" db:"day" yaml:"day" validate:"required"`
	Name        string   `json:"name" db:"name" yaml:"name" validate:"notblank"`
	Description string   `json:"description" db:"description" yaml:"description"`
	Color       string   `json:"color" db:"color" yaml:"color"`
	Quote       string   `json:"quote" db:"quote" yaml:"quote"`
	Tags        []string `json:"tags" db:"-" yaml:"tags"`
}

// DayKey returns the lowercase weekday name used as a theme key.
func DayKey(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}

// ValidDayKey reports whether key names a weekday or the weekend.
func ValidDayKey(key string) bool {
	if key == WeekendThemeKey {
		return true
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if DayKey(wd) == key {
			return true
		}
	}
	return false
}
