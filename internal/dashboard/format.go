package dashboard

import (
	"strings"

	"github.com/hirelytics/hirelytics/internal/models"
)

const neutralBadge = "bg-gray-100 text-gray-800 hover:bg-gray-100"

func StatusColor(s models.ApplicationStatus) string {
	switch s {
	case models.StatusApplied:
		return "bg-blue-100 text-blue-800 hover:bg-blue-100"
	case models.StatusInterview:
		return "bg-yellow-100 text-yellow-800 hover:bg-yellow-100"
	case models.StatusOffer:
		return "bg-green-100 text-green-800 hover:bg-green-100"
	case models.StatusRejected:
		return "bg-red-100 text-red-800 hover:bg-red-100"
	default:
		return neutralBadge
	}
}

func OutcomeColor(o models.Outcome) string {
	switch o {
	case models.OutcomeSuccessful:
		return "bg-green-100 text-green-800 hover:bg-green-100"
	case models.OutcomeUnsuccessful:
		return "bg-red-100 text-red-800 hover:bg-red-100"
	case models.OutcomeInProgress:
		return "bg-blue-100 text-blue-800 hover:bg-blue-100"
	default:
		return neutralBadge
	}
}

// FormatDate renders "Jun 10". Unparsable input is returned as is.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2")
}

// FormatDateWithYear renders "Jun 10, 2024".
func FormatDateWithYear(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}

type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// ParseLocation splits "City, Country". The country is the last part, USA
// when only a city is given.
func ParseLocation(loc string) Location {
	parts := strings.Split(loc, ", ")
	city := parts[0]
	if city == "" {
		city = loc
	}
	country := "USA"
	if len(parts) > 1 {
		country = parts[len(parts)-1]
	}
	return Location{City: city, Country: country}
}
