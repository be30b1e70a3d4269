package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"answer-grader/config"
	"answer-grader/internal/core/verdict"
	"answer-grader/internal/database"
	"answer-grader/internal/database/model"
	"answer-grader/pkg/logger"
)

// Entry describes the inputs of one cached check; it is stored alongside the
// verdict so rows stay inspectable without the original request.
type Entry struct {
	StudentAnswer   string
	Variants        []string
	QuestionContext string
	Provider        string
	Model           string
}

// Stats aggregates the cache table for the operations endpoint.
type Stats struct {
	TotalEntries  int64   `json:"total_entries"`
	ValidEntries  int64   `json:"valid_entries"`
	TotalUsage    int64   `json:"total_usage"`
	AvgConfidence float64 `json:"avg_confidence"`
	Providers     int64   `json:"providers"`
}

func ttl() time.Duration {
	seconds := config.Cfg.AI.CacheTTLSeconds
	if seconds <= 0 {
		seconds = 3600
	}
	return time.Duration(seconds) * time.Second
}

// Lookup returns the cached verdict for key if a live row exists. Hits bump
// usage_count atomically in the database. Any storage error is logged and
// reported as a miss so the caller falls through to the provider.
func Lookup(ctx context.Context, key string) (verdict.Verdict, bool) {
	var row model.AIResponseCache
	err := database.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.
			Where("cache_key = ? AND expires_at > ?", key, time.Now()).
			First(&row).Error; err != nil {
			return err
		}
		return tx.Model(&model.AIResponseCache{}).
			Where("cache_key = ?", key).
			Update("usage_count", gorm.Expr("usage_count + 1")).Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error(err, "%v: lookup failed", config.ModuleCache)
		}
		return verdict.Verdict{}, false
	}
	return verdictFromRow(row), true
}

// Store upserts one verdict under key. A key conflict means the same check
// repeated, so the existing row's usage counter is bumped and its expiry
// extended instead of rewriting the verdict. Errors are logged and swallowed;
// caching is best effort.
func Store(ctx context.Context, key string, entry Entry, v verdict.Verdict) {
	db, err := database.GetDB()
	if err != nil {
		return
	}

	variants, _ := json.Marshal(entry.Variants)
	expires := time.Now().Add(ttl())
	row := model.AIResponseCache{
		CacheKey:        key,
		StudentAnswer:   entry.StudentAnswer,
		CorrectVariants: string(variants),
		QuestionContext: entry.QuestionContext,
		AIProvider:      entry.Provider,
		AIModel:         entry.Model,
		IsCorrect:       v.IsCorrect,
		Confidence:      v.Confidence,
		Explanation:     v.Explanation,
		ExpiresAt:       expires,
		UsageCount:      1,
	}

	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + 1"),
			"expires_at":  expires,
		}),
	}).Create(&row).Error
	if err != nil {
		logger.Error(err, "%v: store failed", config.ModuleCache)
	}
}

// PurgeExpired deletes rows whose expiry has passed and reports the count.
func PurgeExpired(ctx context.Context) (int64, error) {
	db, err := database.GetDB()
	if err != nil {
		return 0, err
	}
	res := db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.AIResponseCache{})
	if res.Error != nil {
		logger.Error(res.Error, "%v: purge failed", config.ModuleCache)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Aggregate computes table-wide statistics.
func Aggregate(ctx context.Context) (Stats, error) {
	db, err := database.GetDB()
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	err = db.WithContext(ctx).Model(&model.AIResponseCache{}).
		Select("COUNT(*) AS total_entries, " +
			"COALESCE(SUM(usage_count), 0) AS total_usage, " +
			"COALESCE(AVG(confidence), 0) AS avg_confidence, " +
			"COUNT(DISTINCT ai_provider) AS providers").
		Scan(&stats).Error
	if err != nil {
		logger.Error(err, "%v: stats failed", config.ModuleCache)
		return Stats{}, err
	}

	err = db.WithContext(ctx).Model(&model.AIResponseCache{}).
		Where("expires_at > ?", time.Now()).
		Count(&stats.ValidEntries).Error
	if err != nil {
		logger.Error(err, "%v: stats failed", config.ModuleCache)
		return Stats{}, err
	}
	return stats, nil
}

// verdictFromRow rehydrates a cached row as an AI verdict.
func verdictFromRow(row model.AIResponseCache) verdict.Verdict {
	return verdict.Verdict{
		IsCorrect:   row.IsCorrect,
		Method:      verdict.MethodAI,
		FromCache:   true,
		Confidence:  row.Confidence,
		Explanation: row.Explanation,
		AIProvider:  row.AIProvider,
	}
}
