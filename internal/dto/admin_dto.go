package dto

type DashboardStats struct {
	TotalUsers         int64 `json:"totalUsers"`
	ActiveUsers        int64 `json:"activeUsers"`
	TotalConversations int64 `json:"totalConversations"`
	TotalMessages      int64 `json:"totalMessages"`
	TotalTokens        int64 `json:"totalTokens"`
}

type DailyUsageResponse struct {
	Date     string  `json:"date"`
	Tokens   int64   `json:"tokens"`
	Cost     float64 `json:"cost"`
	Requests int64   `json:"requests"`
}

type DashboardResponse struct {
	Stats       DashboardStats        `json:"stats"`
	RecentUsage []*DailyUsageResponse `json:"recentUsage"`
}

type SystemSettings struct {
	MaxTokens       int    `json:"maxTokens"`
	DefaultModel    string `json:"defaultModel"`
	RateLimitWindow string `json:"rateLimitWindow"`
	RateLimitMax    int    `json:"rateLimitMax"`
}

type SettingsResponse struct {
	Settings SystemSettings `json:"settings"`
}

type LogsQuery struct {
	Level  string `query:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}
