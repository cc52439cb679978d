package admin

import "styledecor/internal/repository"

type AnalyticsResponse struct {
	TotalIncome    float64                   `json:"totalIncome"`
	CountByService []repository.ServiceCount `json:"countByService"`
	TotalBookings  int64                     `json:"totalBookings"`
	OnlineUsers    int                       `json:"onlineUsers"`
}
