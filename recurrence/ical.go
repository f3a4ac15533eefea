package recurrence

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/clinova/taskcal/model"
)

// ExportICS renders an expansion result as an iCalendar document with one
// VTODO per item, so engine output can feed any calendar client. Item ids
// become UIDs; instances carry a RELATED-TO pointing at their parent
// task. Export is one-way: this library never ingests ICS.
func ExportICS(items []model.Item) (string, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Clinova//taskcal//EN")

	stamp := time.Now().UTC()
	for _, item := range items {
		comp := &ical.Component{Name: ical.CompToDo, Props: make(ical.Props)}
		comp.Props.SetText(ical.PropUID, item.ItemID())
		comp.Props.SetDateTime(ical.PropDateTimeStamp, stamp)

		switch v := item.(type) {
		case model.Task:
			comp.Props.SetText(ical.PropSummary, v.Title)
			comp.Props.SetText(ical.PropStatus, todoStatus(v.Status))
			if due, ok := v.ExplicitDue().Get(); ok {
				comp.Props.SetDateTime(ical.PropDue, due)
			}
			if v.CompletedAt != nil {
				comp.Props.SetDateTime(ical.PropCompleted, *v.CompletedAt)
			}
		case model.Instance:
			comp.Props.SetText(ical.PropSummary, v.Title)
			comp.Props.SetText(ical.PropStatus, todoStatus(v.Status))
			comp.Props.SetText(ical.PropRelatedTo, v.ParentTaskID)
			comp.Props.SetDateTime(ical.PropDateTimeStart, v.InstanceDate)
			comp.Props.SetDateTime(ical.PropDue, v.OriginalDueDate)
		default:
			return "", fmt.Errorf("unsupported item type %T", item)
		}

		cal.Children = append(cal.Children, comp)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.String(), nil
}

// todoStatus maps a task status onto the RFC 5545 VTODO status values.
func todoStatus(s model.Status) string {
	switch s {
	case model.StatusCompleted:
		return "COMPLETED"
	case model.StatusInProgress:
		return "IN-PROCESS"
	}
	return "NEEDS-ACTION"
}
