package sis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jdiamond4/CourseSearch/internal/app/catalog"
	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

// The registrar publishes class records in two shapes: flattened, and
// wrapped under a "raw" envelope with the same field names one level
// down. Both funnel through Canonicalize, which is the only place in
// the codebase aware of the wire format. Counts arrive as numbers or
// decimal strings depending on the endpoint revision, hence the
// interface{} fields.

type wireEnvelope struct {
	Classes []wireClass `json:"classes"`
}

type wireClass struct {
	Raw *wireClass `json:"raw,omitempty"`

	Strm         string      `json:"strm"`
	Subject      string      `json:"subject"`
	CatalogNbr   string      `json:"catalog_nbr"`
	ClassSection string      `json:"class_section"`
	ClassNbr     interface{} `json:"class_nbr"`
	Component    string      `json:"component"`
	Descr        string      `json:"descr"`
	Units        interface{} `json:"units"`

	ClassCapacity       interface{} `json:"class_capacity"`
	EnrollmentTotal     interface{} `json:"enrollment_total"`
	EnrollmentAvailable interface{} `json:"enrollment_available"`
	WaitCap             interface{} `json:"wait_cap"`
	WaitTot             interface{} `json:"wait_tot"`

	EnrlStat      string `json:"enrl_stat"`
	EnrlStatDescr string `json:"enrl_stat_descr"`

	Instructors []wireInstructor `json:"instructors"`
	Meetings    []wireMeeting    `json:"meetings"`

	StartDt string `json:"start_dt"`
	EndDt   string `json:"end_dt"`

	CampusDescr          string `json:"campus_descr"`
	InstructionModeDescr string `json:"instruction_mode_descr"`
	GradingBasis         string `json:"grading_basis"`

	CrseAttr        string      `json:"crse_attr"`
	CrseAttrValue   string      `json:"crse_attr_value"`
	RqmntDesigntn   string      `json:"rqmnt_designtn"`
	Topic           string      `json:"topic"`
	CombinedSection interface{} `json:"combined_section"`
}

type wireInstructor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type wireMeeting struct {
	Days          string `json:"days"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	BldgCd        string `json:"bldg_cd"`
	Room          string `json:"room"`
	FacilityDescr string `json:"facility_descr"`
}

// decodePage parses one page body into canonical class records.
func decodePage(body []byte, termCode string) ([]models.ClassRecord, error) {
	var envelope wireEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode class search response: %w", err)
	}

	records := make([]models.ClassRecord, 0, len(envelope.Classes))
	for _, wire := range envelope.Classes {
		records = append(records, Canonicalize(termCode, wire))
	}
	return records, nil
}

// Canonicalize flattens one wire record into the canonical shape the
// pipeline consumes. When the record is wrapped, the inner envelope is
// taken whole; the two shapes never mix fields within one record.
func Canonicalize(termCode string, wire wireClass) models.ClassRecord {
	flat := wire
	if wire.Raw != nil {
		flat = *wire.Raw
	}

	record := models.ClassRecord{
		TermCode:      firstNonEmpty(strings.TrimSpace(flat.Strm), termCode),
		Subject:       strings.TrimSpace(flat.Subject),
		CatalogNumber: strings.TrimSpace(flat.CatalogNbr),
		ClassNumber:   asString(flat.ClassNbr),
		SectionNumber: strings.TrimSpace(flat.ClassSection),
		Component:     strings.TrimSpace(flat.Component),
		Title:         strings.TrimSpace(flat.Descr),
		Units:         asString(flat.Units),

		Capacity:         catalog.ParseEnrollment(flat.ClassCapacity),
		Enrolled:         catalog.ParseEnrollment(flat.EnrollmentTotal),
		Available:        catalog.ParseEnrollment(flat.EnrollmentAvailable),
		WaitlistCapacity: catalog.ParseEnrollment(flat.WaitCap),
		WaitlistTotal:    catalog.ParseEnrollment(flat.WaitTot),

		EnrollmentStatus:            strings.TrimSpace(flat.EnrlStat),
		EnrollmentStatusDescription: strings.TrimSpace(flat.EnrlStatDescr),

		StartDate: flat.StartDt,
		EndDate:   flat.EndDt,

		Campus:          strings.TrimSpace(flat.CampusDescr),
		InstructionMode: strings.TrimSpace(flat.InstructionModeDescr),
		GradingBasis:    strings.TrimSpace(flat.GradingBasis),

		RequirementDesignation: strings.TrimSpace(flat.RqmntDesigntn),
		Topic:                  strings.TrimSpace(flat.Topic),
		CombinedSection:        asBool(flat.CombinedSection),
	}

	record.Attributes = parseAttributes(flat.CrseAttrValue, flat.CrseAttr)

	for _, instructor := range flat.Instructors {
		name := strings.TrimSpace(instructor.Name)
		if name == "" && strings.TrimSpace(instructor.Email) == "" {
			continue
		}
		record.Instructors = append(record.Instructors, models.ClassInstructor{
			Name:  name,
			Email: strings.TrimSpace(instructor.Email),
		})
	}

	for _, meeting := range flat.Meetings {
		record.Meetings = append(record.Meetings, models.MeetingPattern{
			Days:                meeting.Days,
			StartTime:           meeting.StartTime,
			EndTime:             meeting.EndTime,
			Building:            strings.TrimSpace(meeting.BldgCd),
			Room:                strings.TrimSpace(meeting.Room),
			FacilityDescription: strings.TrimSpace(meeting.FacilityDescr),
		})
	}

	return record
}

// parseAttributes prefers the labeled attribute values over the bare
// codes; both arrive comma separated.
func parseAttributes(values, codes string) []string {
	source := strings.TrimSpace(values)
	if source == "" {
		source = strings.TrimSpace(codes)
	}
	if source == "" {
		return nil
	}

	var attributes []string
	for _, part := range strings.Split(source, ",") {
		if part = strings.TrimSpace(part); part != "" {
			attributes = append(attributes, part)
		}
	}
	return attributes
}

func asString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case float64:
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%g", value)
	case json.Number:
		return value.String()
	case bool:
		if value {
			return "true"
		}
		return "false"
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", value))
	}
}

func asBool(v interface{}) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		s := strings.TrimSpace(strings.ToUpper(value))
		return s == "Y" || s == "YES" || s == "TRUE" || s == "1"
	case float64:
		return value != 0
	default:
		return false
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
