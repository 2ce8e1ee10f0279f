package services

import (
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"gorm.io/gorm"
)

// RecomputeUserRating refreshes a user's rating aggregate from their reviews.
// Runs inside the caller's transaction so a review and its aggregate can
// never disagree.
func RecomputeUserRating(tx *gorm.DB, userID string) error {
	var result struct {
		Avg   float64
		Count int64
	}

	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("reviewee_id = ?", userID).
		Scan(&result).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"rating_average": result.Avg,
			"rating_count":   result.Count,
		}).Error
}
