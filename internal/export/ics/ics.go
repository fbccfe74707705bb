// Package ics serializes synchronized time entries as an iCalendar
// feed so logged work can be imported into a regular calendar app.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/tracktop/tracktop/internal/core/model"
)

const productID = "-//tracktop//time export//EN"

// Build serializes the given entries as a VCALENDAR. Each entry becomes
// a VEVENT with a stable UID derived from the server event id, so
// re-imports update rather than duplicate.
func Build(entries []model.TimeEntry) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	now := time.Now().UTC()
	for _, e := range entries {
		ev := cal.AddEvent(fmt.Sprintf("%s@tracktop", e.ID))
		ev.SetDtStampTime(now)
		ev.SetStartAt(e.Start)
		ev.SetEndAt(e.End)
		ev.SetSummary(e.Project)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
	}
	return cal.Serialize()
}
