// Package dashboard holds the pure transforms the applicant dashboard
// renders from. Nothing here does I/O.
package dashboard

import (
	"math"
	"strings"
	"time"

	"github.com/hirelytics/hirelytics/internal/models"
)

type Stats struct {
	Total        int `json:"total"`
	Applied      int `json:"applied"`
	Interviews   int `json:"interviews"`
	Offers       int `json:"offers"`
	Rejected     int `json:"rejected"`
	ResponseRate int `json:"responseRate"`
	SuccessRate  int `json:"successRate"`
}

type MonthCount struct {
	Month        string `json:"month"`
	Applications int    `json:"applications"`
}

type StatusShare struct {
	Status     models.ApplicationStatus `json:"status"`
	Count      int                      `json:"count"`
	Percentage int                      `json:"percentage"`
}

// Summary is the payload of the dashboard endpoint.
type Summary struct {
	Stats               Stats         `json:"stats"`
	ApplicationsByMonth []MonthCount  `json:"applicationsByMonth"`
	StatusDistribution  []StatusShare `json:"statusDistribution"`
}

func Summarize(apps []models.JobApplication) Summary {
	return Summary{
		Stats:               StatsFromList(apps),
		ApplicationsByMonth: ApplicationsByMonthFromList(apps),
		StatusDistribution:  StatusDistributionFromList(apps),
	}
}

// percent rounds half up, matching what the charts always showed.
func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(n)/float64(total)*100 + 0.5))
}

func StatsFromList(apps []models.JobApplication) Stats {
	s := Stats{Total: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case models.StatusApplied:
			s.Applied++
		case models.StatusInterview:
			s.Interviews++
		case models.StatusOffer:
			s.Offers++
		case models.StatusRejected:
			s.Rejected++
		}
	}
	s.ResponseRate = percent(s.Interviews+s.Offers+s.Rejected, s.Total)
	s.SuccessRate = percent(s.Offers, s.Total)
	return s
}

// ApplicationsByMonthFromList groups by "Jan 2006" in order of first
// appearance. Records with an unparsable date are skipped.
func ApplicationsByMonthFromList(apps []models.JobApplication) []MonthCount {
	out := []MonthCount{}
	idx := map[string]int{}
	for _, a := range apps {
		t, ok := ParseDate(a.ApplicationDate)
		if !ok {
			continue
		}
		key := t.Format("Jan 2006")
		if i, seen := idx[key]; seen {
			out[i].Applications++
			continue
		}
		idx[key] = len(out)
		out = append(out, MonthCount{Month: key, Applications: 1})
	}
	return out
}

func StatusDistributionFromList(apps []models.JobApplication) []StatusShare {
	out := []StatusShare{}
	idx := map[models.ApplicationStatus]int{}
	for _, a := range apps {
		if i, seen := idx[a.Status]; seen {
			out[i].Count++
			continue
		}
		idx[a.Status] = len(out)
		out = append(out, StatusShare{Status: a.Status, Count: 1})
	}
	for i := range out {
		out[i].Percentage = percent(out[i].Count, len(apps))
	}
	return out
}

// FilterApplications matches search case-insensitively against company,
// position, country and city. Status "all" or "" matches every record.
func FilterApplications(apps []models.JobApplication, search, status string) []models.JobApplication {
	q := strings.ToLower(strings.TrimSpace(search))
	st := strings.TrimSpace(status)
	out := make([]models.JobApplication, 0, len(apps))
	for _, a := range apps {
		if st != "" && !strings.EqualFold(st, "all") && string(a.Status) != st {
			continue
		}
		if q != "" && !matches(a, q) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matches(a models.JobApplication, q string) bool {
	for _, f := range []string{a.Company, a.Position, a.Country, a.City} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05"}

// ParseDate reads the date formats application records are written with.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
