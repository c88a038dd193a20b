package repositories

import (
	"context"
	"errors"
	"fmt"

	"cardfields/internal/models"

	"gorm.io/gorm"
)

var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionRepository stores submission audit records.
type SubmissionRepository interface {
	Create(ctx context.Context, s *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]models.Submission, int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, s *models.Submission) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var s models.Submission
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &s, nil
}

// ListBySession returns a page of a session's submissions, newest first,
// with the total count. A non-positive limit returns every row.
func (r *submissionRepository) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]models.Submission, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("session_id = ?", sessionID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	q := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var out []models.Submission
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	return out, total, nil
}
