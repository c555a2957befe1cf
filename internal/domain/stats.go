package domain

type PeriodStats struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type DailyStat struct {
	Day     string  `json:"day"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type DashboardStats struct {
	Today         PeriodStats `json:"today"`
	Week          PeriodStats `json:"week"`
	PendingOrders int         `json:"pendingOrders"`
	DailyStats    []DailyStat `json:"dailyStats,omitempty"`
}
