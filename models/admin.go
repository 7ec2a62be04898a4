package models

// AdminStats, admin panosunun özet sayıları. Tek SQL sorgusuyla toplanır.
type AdminStats struct {
	UserCount     int `json:"user_count"`
	AdminCount    int `json:"admin_count"`
	CategoryCount int `json:"category_count"`
	BoardCount    int `json:"board_count"`
	PostCount     int `json:"post_count"`
}

// PublicStats, auth gerektirmeyen /api/stats yanıtı.
type PublicStats struct {
	TotalUsers int `json:"total_users"`
	TotalPosts int `json:"total_posts"`
}
