package services

import (
	"math"
	"sort"
	"time"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/pkg/utils"
)

// IsOverdue reports whether a request with the given scheduled date and status
// is past due. Terminal requests are never overdue; the comparison is
// date-only against the start of the current local day.
func IsOverdue(scheduledDate *time.Time, status entities.RequestStatus) bool {
	return isOverdueAt(scheduledDate, status, time.Now())
}

func isOverdueAt(scheduledDate *time.Time, status entities.RequestStatus, now time.Time) bool {
	if scheduledDate == nil {
		return false
	}
	if status.Terminal() {
		return false
	}
	// DATE columns scan as midnight UTC. Rebuild the calendar day in now's
	// location so the comparison is between days, not instants.
	y, m, d := scheduledDate.Date()
	scheduled := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return scheduled.Before(utils.StartOfDay(now))
}

const (
	unassignedTeamLabel = "Unassigned"
	otherCategoryLabel  = "Other"
)

// AggregateDashboard recomputes the dashboard snapshot from the full request
// collection. Team and category groupings use the values snapshotted on each
// request at creation time.
func AggregateDashboard(requests []entities.MaintenanceRequest) dto.DashboardStatsDTO {
	stats := dto.DashboardStatsDTO{}

	teamCounts := make(map[string]int64)
	categoryCounts := make(map[string]int64)

	for i := range requests {
		r := &requests[i]
		stats.Total++

		switch {
		case r.Open():
			stats.Open++
		case r.Status == entities.StatusRepaired:
			stats.Repaired++
		case r.Status == entities.StatusScrap:
			stats.Scrap++
		}

		if IsOverdue(r.ScheduledDate, r.Status) {
			stats.Overdue++
		}

		teamName := unassignedTeamLabel
		if r.TeamName != nil && *r.TeamName != "" {
			teamName = *r.TeamName
		}
		teamCounts[teamName]++

		category := otherCategoryLabel
		if r.Category != nil && *r.Category != "" {
			category = *r.Category
		}
		categoryCounts[category]++
	}

	stats.ByTeam = sortedCounts(teamCounts)
	stats.ByCategory = sortedCounts(categoryCounts)

	if stats.Total > 0 {
		stats.CompletionRate = math.Round(float64(stats.Repaired)/float64(stats.Total)*100) / 100
	}

	return stats
}

// sortedCounts orders groups by descending count, name ascending on ties so
// the output is stable.
func sortedCounts(counts map[string]int64) []dto.DashboardCountByGroup {
	groups := make([]dto.DashboardCountByGroup, 0, len(counts))
	for name, count := range counts {
		groups = append(groups, dto.DashboardCountByGroup{GroupName: name, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].GroupName < groups[j].GroupName
	})
	return groups
}
