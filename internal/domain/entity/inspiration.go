// Package entity 定义领域实体
package entity

import (
	"time"
)

// InspirationLogo 策展的灵感参考 Logo
type InspirationLogo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Industry    string    `json:"industry,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// InspirationMatch 相似检索命中结果
type InspirationMatch struct {
	Logo  *InspirationLogo `json:"logo"`
	Score float32          `json:"score"`
}
