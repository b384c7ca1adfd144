package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

const reviewSelect = `
	SELECT r.id, r.user_id, r.display_name, r.rating, r.body, r.is_published, r.created_at,
		ir.id, ir.responder_id, ir.body, ir.created_at
	FROM reviews r
	LEFT JOIN instructor_responses ir ON ir.review_id = r.id
`

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB) *reviewRepository {
	return &reviewRepository{
		db: db,
	}
}

func scanReview(row rowScanner) (*models.Review, error) {
	var (
		rv           models.Review
		responseID   sql.NullInt64
		responderID  sql.NullInt64
		responseBody sql.NullString
		respondedAt  sql.NullTime
	)
	err := row.Scan(
		&rv.ID, &rv.UserID, &rv.DisplayName, &rv.Rating, &rv.Body, &rv.IsPublished, &rv.CreatedAt,
		&responseID, &responderID, &responseBody, &respondedAt,
	)
	if err != nil {
		return nil, err
	}
	if responseID.Valid {
		rv.Response = &models.InstructorResponse{
			ID:          int(responseID.Int64),
			ReviewID:    rv.ID,
			ResponderID: int(responderID.Int64),
			Body:        responseBody.String,
			CreatedAt:   respondedAt.Time,
		}
	}
	return &rv, nil
}

// Create inserts a review
func (r *reviewRepository) Create(ctx context.Context, rv *models.Review) error {
	query := `
		INSERT INTO reviews (user_id, display_name, rating, body, is_published, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, rv.UserID, rv.DisplayName, rv.Rating, rv.Body, rv.IsPublished, rv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rv.ID = int(id)
	return nil
}

// GetByID returns a review with its response, if any
func (r *reviewRepository) GetByID(ctx context.Context, id int) (*models.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, reviewSelect+` WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("review %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return rv, nil
}

// List returns reviews newest first; publishedOnly hides unpublished ones
func (r *reviewRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.Review, error) {
	query := reviewSelect
	if publishedOnly {
		query += ` WHERE r.is_published = TRUE`
	}
	query += ` ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

// SetPublished changes review visibility
func (r *reviewRepository) SetPublished(ctx context.Context, id int, published bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reviews SET is_published = ? WHERE id = ?`, published, id)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("review %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// CreateResponse inserts an instructor response to a review
func (r *reviewRepository) CreateResponse(ctx context.Context, resp *models.InstructorResponse) error {
	query := `
		INSERT INTO instructor_responses (review_id, responder_id, body, created_at)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, resp.ReviewID, resp.ResponderID, resp.Body, resp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	resp.ID = int(id)
	return nil
}
