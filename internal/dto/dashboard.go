package dto

type DashboardCountByGroup struct {
	GroupName string `json:"group_name"`
	Count     int64  `json:"count"`
}

type DashboardStatsDTO struct {
	Total          int64                   `json:"total"`
	Open           int64                   `json:"open"`
	Overdue        int64                   `json:"overdue"`
	Repaired       int64                   `json:"repaired"`
	Scrap          int64                   `json:"scrap"`
	CompletionRate float64                 `json:"completion_rate"`
	ByTeam         []DashboardCountByGroup `json:"by_team"`
	ByCategory     []DashboardCountByGroup `json:"by_category"`
}
