package model

import "time"

// AIResponseCache is one cached remote verification outcome. The cache key is
// a content hash of the check inputs, so two rows never describe the same
// check; a key conflict only signals a repeat occurrence.
type AIResponseCache struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CacheKey        string    `gorm:"column:cache_key;size:255;uniqueIndex:uq_cache_key;not null"`
	StudentAnswer   string    `gorm:"column:student_answer;type:text;not null"`
	CorrectVariants string    `gorm:"column:correct_variants;type:text;not null"`
	QuestionContext string    `gorm:"column:question_context;type:text"`
	AIProvider      string    `gorm:"column:ai_provider;size:50;not null;index:idx_provider_model,priority:1"`
	AIModel         string    `gorm:"column:ai_model;size:100;not null;index:idx_provider_model,priority:2"`
	IsCorrect       bool      `gorm:"column:is_correct;not null"`
	Confidence      float64   `gorm:"column:confidence;not null"`
	Explanation     string    `gorm:"column:explanation;type:text;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime;index:idx_created_at"`
	ExpiresAt       time.Time `gorm:"column:expires_at;not null;index:idx_expires_at"`
	UsageCount      int64     `gorm:"column:usage_count;not null;default:1"`
}

func (AIResponseCache) TableName() string { return "ai_response_cache" }
