package models

// Stats — агрегированные показатели для админской панели.
type Stats struct {
	TotalUsers      int `json:"totalUsers"`
	ActiveUsers     int `json:"activeUsers"`
	ExpiredUsers    int `json:"expiredUsers"`
	TotalGames      int `json:"totalGames"`
	PendingReports  int `json:"pendingReports"`
	TotalCategories int `json:"totalCategories"`
}
