package models

import "time"

// Watch represents a recurring feed analysis job for a user.
type Watch struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Handle         string     `json:"handle"`
	Model          string     `json:"model"`
	CronExpression string     `json:"cronExpression"` // e.g. "0 8 * * *" for 8 AM daily
	IsActive       bool       `json:"isActive"`
	LastRunAt      *time.Time `json:"lastRunAt"`
	NextRunAt      *time.Time `json:"nextRunAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}
