package models

// DashboardMetrics are the headline numbers of the tenant dashboard.
//
// NPS here is a simplified two-bucket variant computed on the 1-5 star
// scale: promoters are 5-star reviews, detractors are reviews at 3 stars or
// below, and passives (4 stars) are ignored. This is not the canonical 0-10
// promoter/passive/detractor model.
type DashboardMetrics struct {
	Total            int64   `json:"total"`
	Average          float64 `json:"average"`
	NPS              int     `json:"nps"`
	ActiveAttendants int     `json:"activeAttendants"`
}

// DashboardData is the full dashboard response for one tenant.
// Trend maps UTC calendar dates (YYYY-MM-DD) of the trailing 30 days to
// review counts; days without reviews are omitted.
type DashboardData struct {
	CompanyName string           `json:"companyName"`
	Plan        Plan             `json:"plan"`
	Logo        string           `json:"logo"`
	Metrics     DashboardMetrics `json:"metrics"`
	Reviews     []Review         `json:"reviews"`
	Attendants  []AttendantStats `json:"attendants"`
	ByState     []StateCount     `json:"byState"`
	Trend       map[string]int64 `json:"trend"`
}

// PlanCount is the number of companies on one plan tier.
type PlanCount struct {
	Plan  Plan  `json:"plan"`
	Count int64 `json:"count"`
}

// PlatformMetrics are the cross-tenant numbers of the SaaS admin dashboard.
type PlatformMetrics struct {
	Companies  PlatformCounter `json:"companies"`
	Reviews    PlatformTotal   `json:"reviews"`
	Attendants PlatformCounter `json:"attendants"`
	ByPlan     []PlanCount     `json:"byPlan"`
}

type PlatformCounter struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type PlatformTotal struct {
	Total int64 `json:"total"`
}
