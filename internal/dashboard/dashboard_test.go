package dashboard

import (
	"testing"

	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/stretchr/testify/assert"
)

func app(status models.ApplicationStatus, date string) models.JobApplication {
	return models.JobApplication{Status: status, ApplicationDate: date}
}

func TestStatsFromList_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, StatsFromList(nil))
}

func TestStatsFromList(t *testing.T) {
	apps := []models.JobApplication{
		app(models.StatusOffer, "2024-06-10"),
		app(models.StatusApplied, "2024-06-11"),
		app(models.StatusApplied, "2024-07-01"),
	}
	s := StatsFromList(apps)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Applied)
	assert.Equal(t, 1, s.Offers)
	assert.Equal(t, 33, s.SuccessRate)
	assert.Equal(t, 33, s.ResponseRate)
}

func TestStatsFromList_RoundsHalfUp(t *testing.T) {
	apps := []models.JobApplication{
		app(models.StatusInterview, ""), app(models.StatusApplied, ""),
		app(models.StatusApplied, ""), app(models.StatusApplied, ""),
		app(models.StatusApplied, ""), app(models.StatusApplied, ""),
		app(models.StatusApplied, ""), app(models.StatusApplied, ""),
	}
	// 1/8 = 12.5%
	assert.Equal(t, 13, StatsFromList(apps).ResponseRate)
}

func TestApplicationsByMonthFromList(t *testing.T) {
	apps := []models.JobApplication{
		app(models.StatusApplied, "2024-07-02"),
		app(models.StatusApplied, "2024-06-10"),
		app(models.StatusApplied, "not a date"),
		app(models.StatusApplied, "2024-07-20"),
	}
	assert.Equal(t, []MonthCount{
		{Month: "Jul 2024", Applications: 2},
		{Month: "Jun 2024", Applications: 1},
	}, ApplicationsByMonthFromList(apps))
}

func TestStatusDistributionFromList(t *testing.T) {
	assert.Equal(t, []StatusShare{}, StatusDistributionFromList(nil))

	apps := []models.JobApplication{
		app(models.StatusRejected, ""),
		app(models.StatusApplied, ""),
		app(models.StatusApplied, ""),
	}
	got := StatusDistributionFromList(apps)
	assert.Equal(t, []StatusShare{
		{Status: models.StatusRejected, Count: 1, Percentage: 33},
		{Status: models.StatusApplied, Count: 2, Percentage: 67},
	}, got)

	sum := 0
	for _, s := range got {
		sum += s.Percentage
	}
	assert.InDelta(t, 100, sum, float64(len(got)))
}

func TestFilterApplications(t *testing.T) {
	apps := []models.JobApplication{
		{ID: "1", Company: "TechCorp", Position: "Engineer", City: "Austin", Country: "USA", Status: models.StatusApplied},
		{ID: "2", Company: "DataFlow", Position: "Analyst", City: "Berlin", Country: "Germany", Status: models.StatusInterview},
	}
	ids := func(in []models.JobApplication) []string {
		out := []string{}
		for _, a := range in {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2"}, ids(FilterApplications(apps, "", "all")))
	assert.Equal(t, []string{"2"}, ids(FilterApplications(apps, "GERMANY", "")))
	assert.Equal(t, []string{"1"}, ids(FilterApplications(apps, "", "Applied")))
	assert.Empty(t, FilterApplications(apps, "techcorp", "Interview"))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "Jun 10", FormatDate("2024-06-10"))
	assert.Equal(t, "Jun 10, 2024", FormatDateWithYear("2024-06-10"))
	assert.Equal(t, "soon", FormatDate("soon"))

	assert.Equal(t, Location{City: "Austin", Country: "USA"}, ParseLocation("Austin"))
	assert.Equal(t, Location{City: "Austin", Country: "USA"}, ParseLocation("Austin, TX, USA"))
	assert.Equal(t, Location{City: "Berlin", Country: "Germany"}, ParseLocation("Berlin, Germany"))

	assert.Equal(t, "bg-yellow-100 text-yellow-800 hover:bg-yellow-100", StatusColor(models.StatusInterview))
	assert.Equal(t, neutralBadge, StatusColor(models.StatusWithdrawn))
	assert.Equal(t, neutralBadge, OutcomeColor(models.OutcomePending))
}
