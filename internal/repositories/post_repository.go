package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

// PostRepository is the narrow slice of post persistence the bot sweeps need.
// The full posts CRUD belongs to the feed service.
type PostRepository interface {
	CreatePost(ctx context.Context, userID int, content string) (models.Post, error)
}

// PostRepo is a sqlx implementation of PostRepository.
type PostRepo struct {
	db *sqlx.DB
}

// NewPostRepo constructs a PostRepo.
func NewPostRepo(db *sqlx.DB) *PostRepo {
	return &PostRepo{db: db}
}

// CreatePost stores a feed post.
func (r *PostRepo) CreatePost(ctx context.Context, userID int, content string) (models.Post, error) {
	var post models.Post
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO posts (user_id, content) VALUES ($1, $2) RETURNING id, user_id, content, created_at`,
		userID, content).StructScan(&post)
	return post, err
}
