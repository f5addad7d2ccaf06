package domain

// ToDocument renders e as a transport document holding only the fields that
// are set. Dates and times use TimestampLayout.
//
// On create, userIds is always written: an empty list is what makes an event
// visible to the whole team. On update it is written only when the request
// carried it, so a partial update never clears restrictions by accident.
func (e *Event) ToDocument() (Document, error) {
	doc := Document{}

	if !e.create {
		if e.id == "" {
			return nil, BadRequest("Event id was not provided")
		}
		doc["eventId"] = e.id
	}

	if e.eventType != "" {
		if !e.eventType.Valid() {
			return nil, BadRequest("Event type is invalid value")
		}
		doc["eventType"] = string(e.eventType)
	} else if e.create {
		return nil, BadRequest("Event type was not provided")
	}

	if e.name != "" {
		doc["name"] = e.name
	} else if e.create {
		return nil, BadRequest("Name was not provided")
	}

	if e.dates != nil {
		doc["dates"] = map[string]interface{}{
			"from": FormatTimestamp(e.dates.From),
			"to":   FormatTimestamp(e.dates.To),
		}
	} else if e.create {
		return nil, BadRequest("Dates was not provided")
	}

	if len(e.userIDs) > 0 || e.create || e.userIDsSet {
		ids := make([]interface{}, len(e.userIDs))
		for i, id := range e.userIDs {
			ids[i] = id
		}
		doc["userIds"] = ids
	}

	if e.times != nil {
		doc["times"] = map[string]interface{}{
			"from": FormatTimestamp(e.times.From),
			"to":   FormatTimestamp(e.times.To),
		}
	}

	if e.location != "" {
		doc["location"] = e.location
	}
	if e.description != "" {
		doc["description"] = e.description
	}

	if e.repeating != nil {
		rep, err := e.repeating.toMap()
		if err != nil {
			return nil, err
		}
		doc["repeating"] = rep
	}

	return doc, nil
}

func (r *Repeating) toMap() (map[string]interface{}, error) {
	if !r.Frequency.Valid() {
		return nil, BadRequest("Repeating frequency is invalid value")
	}

	out := map[string]interface{}{
		"frequency": string(r.Frequency),
		"startDate": FormatTimestamp(r.StartDate),
		"endDate":   FormatTimestamp(r.EndDate),
	}

	if r.Frequency != FrequencyWeekly {
		if len(r.DaysOfWeek) > 0 {
			return nil, BadRequest("Repeating days of week is only allowed for weekly frequency")
		}
		return out, nil
	}

	if len(r.DaysOfWeek) == 0 {
		return nil, BadRequest("Repeating days of week was not provided")
	}
	days := make([]interface{}, len(r.DaysOfWeek))
	for i, d := range r.DaysOfWeek {
		if !d.Valid() {
			return nil, BadRequest("Repeating days of week is invalid value")
		}
		days[i] = string(d)
	}
	out["daysOfWeek"] = days
	return out, nil
}
