package workcal

import (
	"time"

	"github.com/beevik/etree"
)

// XML vocabulary for working-calendar settings documents:
//
//	<working-calendar clinic="main-street">
//	  <weekends-are-workdays>false</weekends-are-workdays>
//	  <holidays>
//	    <holiday date="2024-12-25"/>
//	  </holidays>
//	</working-calendar>
const (
	elemRoot     = "working-calendar"
	elemWeekends = "weekends-are-workdays"
	elemHolidays = "holidays"
	elemHoliday  = "holiday"
	attrClinic   = "clinic"
	attrDate     = "date"

	dateLayout = "2006-01-02"
)

// ParseSettingsXML decodes one working-calendar settings document,
// returning the clinic id it applies to and the decoded policy.
func ParseSettingsXML(data []byte) (string, *Settings, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", nil, &Error{Type: ErrInvalidInput, Message: "malformed settings document", Err: err}
	}

	root := doc.SelectElement(elemRoot)
	if root == nil {
		return "", nil, &Error{Type: ErrInvalidInput, Message: "missing <" + elemRoot + "> root element"}
	}

	clinicID := root.SelectAttrValue(attrClinic, "")
	if clinicID == "" {
		return "", nil, &Error{Type: ErrInvalidInput, Message: "missing clinic attribute"}
	}

	settings := &Settings{}
	if weekends := root.SelectElement(elemWeekends); weekends != nil {
		settings.WeekendsAreWorkdays = weekends.Text() == "true"
	}

	if holidays := root.SelectElement(elemHolidays); holidays != nil {
		for _, h := range holidays.SelectElements(elemHoliday) {
			raw := h.SelectAttrValue(attrDate, "")
			date, err := time.Parse(dateLayout, raw)
			if err != nil {
				return "", nil, &Error{Type: ErrInvalidInput, Message: "bad holiday date: " + raw, Err: err}
			}
			settings.Holidays = append(settings.Holidays, date)
		}
	}

	return clinicID, settings, nil
}

// SettingsXML encodes a clinic's policy as a settings document.
func SettingsXML(clinicID string, settings *Settings) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(elemRoot)
	root.CreateAttr(attrClinic, clinicID)

	weekends := root.CreateElement(elemWeekends)
	if settings.WeekendsAreWorkdays {
		weekends.SetText("true")
	} else {
		weekends.SetText("false")
	}

	holidays := root.CreateElement(elemHolidays)
	for _, h := range settings.Holidays {
		holiday := holidays.CreateElement(elemHoliday)
		holiday.CreateAttr(attrDate, h.Format(dateLayout))
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}
