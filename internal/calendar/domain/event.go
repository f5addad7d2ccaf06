package domain

import (
	"fmt"
	"time"
)

// DateRange is an inclusive span of calendar days, each at midnight UTC.
type DateRange struct {
	From time.Time
	To   time.Time
}

// TimeRange is the time-of-day window of a non-full-day event.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Repeating describes how an event recurs. It is stored as given and never
// expanded into occurrences.
type Repeating struct {
	Frequency  Frequency
	StartDate  time.Time
	EndDate    time.Time
	DaysOfWeek []DayOfWeek
}

// Event is a validated calendar event built from one request document.
// Fields are unexported so a constructed Event cannot be changed.
type Event struct {
	create bool

	id          string
	userIDs     []string
	userIDsSet  bool
	eventType   EventType
	name        string
	location    string
	description string
	dates       *DateRange
	times       *TimeRange
	repeating   *Repeating
}

// NewEvent validates doc into an Event. With create set, eventType, name and
// dates are required and any eventId is ignored; otherwise eventId is
// required and every other field is optional. Validation stops at the first
// failing field.
func NewEvent(doc Document, create bool) (*Event, error) {
	e := &Event{create: create}

	steps := []func(Document) error{
		e.setEventID,
		e.setEventType,
		e.setName,
		e.setDates,
		e.setUserIDs,
		e.setTimes,
		e.setLocation,
		e.setDescription,
		e.setRepeating,
	}
	for _, step := range steps {
		if err := step(doc); err != nil {
			return nil, err
		}
	}

	return e, nil
}

func (e *Event) setEventID(doc Document) error {
	if e.create {
		return nil
	}
	id, err := CheckField[string](doc, "eventId", "Event id", false)
	if err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Event) setEventType(doc Document) error {
	raw, err := CheckField[string](doc, "eventType", "Event type", !e.create)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	t, ok := ParseEventType(raw)
	if !ok {
		return BadRequest("Event type is invalid value")
	}
	e.eventType = t
	return nil
}

func (e *Event) setName(doc Document) error {
	name, err := CheckField[string](doc, "name", "Name", !e.create)
	if err != nil {
		return err
	}
	e.name = name
	return nil
}

func (e *Event) setDates(doc Document) error {
	dates, err := CheckField[map[string]interface{}](doc, "dates", "Dates", !e.create)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		return nil
	}

	from, to, err := parsePair(dates, "Dates", ParseDate)
	if err != nil {
		return err
	}
	if from.After(to) {
		return BadRequest("Dates from is after to")
	}
	e.dates = &DateRange{From: from, To: to}
	return nil
}

func (e *Event) setUserIDs(doc Document) error {
	_, e.userIDsSet = doc["userIds"]

	list, err := CheckField[[]interface{}](doc, "userIds", "User ids", true)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, item := range list {
		id, ok := item.(string)
		if !ok {
			return BadRequest(fmt.Sprintf("User ids is invalid type: list containing %s", typeName(item)))
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	e.userIDs = ids
	return nil
}

func (e *Event) setTimes(doc Document) error {
	times, err := CheckField[map[string]interface{}](doc, "times", "Times", true)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return nil
	}

	from, to, err := parsePair(times, "Times", ParseTimestamp)
	if err != nil {
		return err
	}
	if from.After(to) {
		return BadRequest("Times from is after to")
	}
	e.times = &TimeRange{From: from, To: to}
	return nil
}

func (e *Event) setLocation(doc Document) error {
	location, err := CheckField[string](doc, "location", "Location", true)
	if err != nil {
		return err
	}
	e.location = location
	return nil
}

func (e *Event) setDescription(doc Document) error {
	description, err := CheckField[string](doc, "description", "Description", true)
	if err != nil {
		return err
	}
	e.description = description
	return nil
}

func (e *Event) setRepeating(doc Document) error {
	rep, err := CheckField[map[string]interface{}](doc, "repeating", "Repeating", true)
	if err != nil {
		return err
	}
	if len(rep) == 0 {
		return nil
	}

	freqRaw, err := CheckField[string](rep, "frequency", "Repeating frequency", false)
	if err != nil {
		return err
	}
	startRaw, err := CheckField[string](rep, "startDate", "Repeating start date", false)
	if err != nil {
		return err
	}
	endRaw, err := CheckField[string](rep, "endDate", "Repeating end date", false)
	if err != nil {
		return err
	}

	freq, ok := ParseFrequency(freqRaw)
	if !ok {
		return BadRequest("Repeating frequency is invalid value")
	}

	start, startErr := ParseDate(startRaw)
	end, endErr := ParseDate(endRaw)
	if startErr != nil || endErr != nil {
		return BadRequest("Repeating dict key(s) is/are invalid type or format.")
	}
	if start.After(end) {
		return BadRequest("Repeating start date is after end date")
	}

	r := &Repeating{Frequency: freq, StartDate: start, EndDate: end}

	if freq == FrequencyWeekly {
		days, err := CheckField[[]interface{}](rep, "daysOfWeek", "Repeating days of week", false)
		if err != nil {
			return err
		}
		r.DaysOfWeek, err = parseDays(days)
		if err != nil {
			return err
		}
	} else if days, present := rep["daysOfWeek"]; present && !isEmptyValue(days) {
		return BadRequest("Repeating days of week is only allowed for weekly frequency")
	}

	e.repeating = r
	return nil
}

func parseDays(raw []interface{}) ([]DayOfWeek, error) {
	days := make([]DayOfWeek, 0, len(raw))
	seen := make(map[DayOfWeek]struct{}, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, BadRequest(fmt.Sprintf("Repeating days of week is invalid type: list containing %s", typeName(item)))
		}
		d, ok := ParseDayOfWeek(s)
		if !ok {
			return nil, BadRequest("Repeating days of week is invalid value")
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	return days, nil
}

// parsePair reads the required from/to strings of a range sub-document.
func parsePair(m map[string]interface{}, name string, parse func(string) (time.Time, error)) (time.Time, time.Time, error) {
	sub := Document(m)
	fromRaw, err := CheckField[string](sub, "from", name+" from", false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	toRaw, err := CheckField[string](sub, "to", name+" to", false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	from, fromErr := parse(fromRaw)
	to, toErr := parse(toRaw)
	if fromErr != nil || toErr != nil {
		return time.Time{}, time.Time{}, BadRequest(name + " dict key(s) is/are invalid type or format.")
	}
	return from, to, nil
}

func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	return false
}

func (e *Event) IsCreate() bool      { return e.create }
func (e *Event) ID() string          { return e.id }
func (e *Event) Type() EventType     { return e.eventType }
func (e *Event) Name() string        { return e.name }
func (e *Event) Location() string    { return e.location }
func (e *Event) Description() string { return e.description }

// UserIDs returns the members the event is restricted to. Empty means the
// whole team.
func (e *Event) UserIDs() []string {
	return append([]string{}, e.userIDs...)
}

func (e *Event) Dates() (DateRange, bool) {
	if e.dates == nil {
		return DateRange{}, false
	}
	return *e.dates, true
}

func (e *Event) Times() (TimeRange, bool) {
	if e.times == nil {
		return TimeRange{}, false
	}
	return *e.times, true
}

// FullDay reports whether the event has no time-of-day window.
func (e *Event) FullDay() bool {
	return e.times == nil
}

func (e *Event) Repeating() (Repeating, bool) {
	if e.repeating == nil {
		return Repeating{}, false
	}
	r := *e.repeating
	r.DaysOfWeek = append([]DayOfWeek(nil), e.repeating.DaysOfWeek...)
	return r, true
}
