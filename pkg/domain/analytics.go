package domain

type DashboardStats struct {
	TotalUsers       int `json:"total_users"`
	TotalTopics      int `json:"total_topics"`
	TotalSessions    int `json:"total_sessions"`
	TotalMessages    int `json:"total_messages"`
	ActiveUsersToday int `json:"active_users_today"`
}

// UsagePoint is one day of activity in the usage series.
type UsagePoint struct {
	Date     string `json:"date"`
	Sessions int    `json:"sessions"`
	Messages int    `json:"messages"`
}

type TopicUsage struct {
	TopicID  int64  `json:"topic_id"`
	Name     string `json:"name"`
	Sessions int    `json:"sessions"`
}
