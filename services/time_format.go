// Package services holds the scheduling and presentation logic of the timetable
// and the collaborators it talks to.
// File: services/time_format.go
package services

import (
	"time"

	"golang.org/x/text/language"
)

// timeLayouts are the date and time renderings for one locale.
type timeLayouts struct {
	date string
	time string
}

var (
	supportedLocales = []language.Tag{language.AmericanEnglish, language.BritishEnglish}
	localeMatcher    = language.NewMatcher(supportedLocales)

	// indexed like supportedLocales
	localeLayouts = []timeLayouts{
		{date: "Monday, January 2", time: "3:04PM"},
		{date: "Monday, 2 January", time: "15:04"},
	}
)

// TimeFormatter renders timestamps for a viewer's locale and time zone.
type TimeFormatter struct {
	Locale   language.Tag
	location *time.Location
	layouts  timeLayouts
}

// NewTimeFormatter picks the closest supported locale for an Accept-Language
// header value. Unknown or empty values fall back to American English.
// A nil location keeps each timestamp in its own zone.
func NewTimeFormatter(acceptLanguage string, loc *time.Location) *TimeFormatter {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		tags = nil
	}
	_, idx, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		idx = 0
	}
	return &TimeFormatter{
		Locale:   supportedLocales[idx],
		location: loc,
		layouts:  localeLayouts[idx],
	}
}

func (f *TimeFormatter) local(t time.Time) time.Time {
	if f.location == nil {
		return t
	}
	return t.In(f.location)
}

// FormatDate renders weekday, month and day without a year, e.g. "Thursday, August 3".
func (f *TimeFormatter) FormatDate(t time.Time) string {
	return f.local(t).Format(f.layouts.date)
}

// FormatTime renders the hour and minute, e.g. "1:00PM".
func (f *TimeFormatter) FormatTime(t time.Time) string {
	return f.local(t).Format(f.layouts.time)
}

// FormatRange renders "<date>, <start time> - <end time>".
func (f *TimeFormatter) FormatRange(start, end time.Time) string {
	return f.FormatDate(start) + ", " + f.FormatTime(start) + " - " + f.FormatTime(end)
}
