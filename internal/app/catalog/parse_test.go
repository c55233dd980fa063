package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

func TestParseEnrollment(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want int
	}{
		{"nil", nil, models.CountUnknown},
		{"int", 42, 42},
		{"int64", int64(17), 17},
		{"float", float64(30), 30},
		{"json number int", json.Number("25"), 25},
		{"json number decimal", json.Number("25.0"), 25},
		{"numeric string", "120", 120},
		{"decimal string", "120.0", 120},
		{"padded string", "  8 ", 8},
		{"empty string", "", models.CountUnknown},
		{"junk string", "full", models.CountUnknown},
		{"bool", true, models.CountUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEnrollment(tt.raw))
		})
	}
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"dotted registrar form", "14.00.00.000000", "14:00"},
		{"dotted morning", "09.30.00.000000", "09:30"},
		{"dotted short", "8.15", "08:15"},
		{"plain colon", "14:00", "14:00"},
		{"colon with seconds", "09:30:00", "09:30"},
		{"meridiem pm", "2:00 PM", "14:00"},
		{"meridiem am lowercase", "9:30am", "09:30"},
		{"noon", "12:00 PM", "12:00"},
		{"midnight meridiem", "12:00 AM", "00:00"},
		{"real midnight stays scheduled", "00:00", "00:00"},
		{"empty", "", models.TimeTBA},
		{"tba literal", "TBA", models.TimeTBA},
		{"tba lowercase", "tba", models.TimeTBA},
		{"hour out of range", "25:00", models.TimeTBA},
		{"meridiem hour out of range", "13:00 PM", models.TimeTBA},
		{"junk", "soon", models.TimeTBA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseClockTime(tt.raw))
		})
	}
}

func TestParseMeetingDays(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"mwf", "MoWeFr", []string{"Mo", "We", "Fr"}},
		{"tuth", "TuTh", []string{"Tu", "Th"}},
		{"single day", "Fr", []string{"Fr"}},
		{"weekend", "SaSu", []string{"Sa", "Su"}},
		{"lowercase", "mowefr", []string{"Mo", "We", "Fr"}},
		{"unknown fragment dropped", "MoXXWe", []string{"Mo", "We"}},
		{"empty", "", nil},
		{"tba", "TBA", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMeetingDays(tt.raw))
		})
	}
}
