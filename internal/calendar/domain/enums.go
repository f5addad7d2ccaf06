package domain

import "strings"

// EventType is the closed set of calendar event kinds.
type EventType string

const (
	EventTypeWorkout      EventType = "workout"
	EventTypePractice     EventType = "practice"
	EventTypeCompetition  EventType = "competition"
	EventTypeMeeting      EventType = "meeting"
	EventTypeTrainingRoom EventType = "training room"
)

var eventTypes = map[string]EventType{
	"workout":       EventTypeWorkout,
	"practice":      EventTypePractice,
	"competition":   EventTypeCompetition,
	"meeting":       EventTypeMeeting,
	"training room": EventTypeTrainingRoom,
	"training_room": EventTypeTrainingRoom,
}

// ParseEventType maps a wire value onto EventType.
func ParseEventType(s string) (EventType, bool) {
	t, ok := eventTypes[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

func (t EventType) Valid() bool {
	switch t {
	case EventTypeWorkout, EventTypePractice, EventTypeCompetition, EventTypeMeeting, EventTypeTrainingRoom:
		return true
	}
	return false
}

// Frequency is how often a repeating event recurs.
type Frequency string

const (
	FrequencyDaily   Frequency = "d"
	FrequencyWeekly  Frequency = "w"
	FrequencyMonthly Frequency = "m"
	FrequencyYearly  Frequency = "y"
)

var frequencies = map[string]Frequency{
	"d":       FrequencyDaily,
	"w":       FrequencyWeekly,
	"m":       FrequencyMonthly,
	"y":       FrequencyYearly,
	"daily":   FrequencyDaily,
	"weekly":  FrequencyWeekly,
	"monthly": FrequencyMonthly,
	"yearly":  FrequencyYearly,
}

func ParseFrequency(s string) (Frequency, bool) {
	f, ok := frequencies[strings.ToLower(strings.TrimSpace(s))]
	return f, ok
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// DayOfWeek uses single-letter codes; Thursday is H and Sunday is U.
type DayOfWeek string

const (
	Monday    DayOfWeek = "M"
	Tuesday   DayOfWeek = "T"
	Wednesday DayOfWeek = "W"
	Thursday  DayOfWeek = "H"
	Friday    DayOfWeek = "F"
	Saturday  DayOfWeek = "S"
	Sunday    DayOfWeek = "U"
)

var daysOfWeek = map[string]DayOfWeek{
	"M": Monday, "T": Tuesday, "W": Wednesday, "H": Thursday, "F": Friday, "S": Saturday, "U": Sunday,
	"mon": Monday, "tue": Tuesday, "wed": Wednesday, "thu": Thursday, "fri": Friday, "sat": Saturday, "sun": Sunday,
	"monday": Monday, "tuesday": Tuesday, "wednesday": Wednesday, "thursday": Thursday,
	"friday": Friday, "saturday": Saturday, "sunday": Sunday,
}

// ParseDayOfWeek accepts the upper-case single-letter code or an English day
// name. Codes are case-sensitive.
func ParseDayOfWeek(s string) (DayOfWeek, bool) {
	s = strings.TrimSpace(s)
	if d, ok := daysOfWeek[s]; ok {
		return d, true
	}
	if len(s) < 3 {
		return "", false
	}
	d, ok := daysOfWeek[strings.ToLower(s)]
	return d, ok
}

func (d DayOfWeek) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}
