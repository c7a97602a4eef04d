package jobs

const TaskRefreshNews = "news:refresh"

type RefreshNewsPayload struct {
	Username string `json:"username"`
}
