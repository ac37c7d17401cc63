package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"uploadai/internal/apperr"
	"uploadai/internal/model"
)

type postgresVideoRepository struct {
	db *sql.DB
}

// NewPostgresVideoRepository creates a Postgres-backed video repository.
func NewPostgresVideoRepository(db *sql.DB) VideoRepository {
	return &postgresVideoRepository{db: db}
}

func (r *postgresVideoRepository) Create(ctx context.Context, v *model.Video) error {
	const q = `
		INSERT INTO videos (id, name, path, mime_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.db.ExecContext(ctx, q, v.ID, v.Name, v.Path, v.MimeType, v.SizeBytes, v.CreatedAt); err != nil {
		return fmt.Errorf("saving video: %w", err)
	}

	return nil
}

func (r *postgresVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	const q = `
		SELECT id, name, path, mime_type, size_bytes, transcript, created_at
		FROM videos
		WHERE id = $1
	`

	v := model.Video{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID,
		&v.Name,
		&v.Path,
		&v.MimeType,
		&v.SizeBytes,
		&v.Transcript,
		&v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("video")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning video row: %w", err)
	}

	return &v, nil
}

func (r *postgresVideoRepository) SetTranscript(ctx context.Context, id uuid.UUID, transcript string) error {
	const q = `
		UPDATE videos
		SET transcript = $1
		WHERE id = $2
	`

	res, err := r.db.ExecContext(ctx, q, transcript, id)
	if err != nil {
		return fmt.Errorf("updating transcript: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("video")
	}

	return nil
}

type postgresPromptRepository struct {
	db *sql.DB
}

// NewPostgresPromptRepository creates a Postgres-backed prompt repository.
func NewPostgresPromptRepository(db *sql.DB) PromptRepository {
	return &postgresPromptRepository{db: db}
}

func (r *postgresPromptRepository) List(ctx context.Context) ([]model.Prompt, error) {
	const q = `
		SELECT id, title, template
		FROM prompts
		ORDER BY title
	`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying prompts: %w", err)
	}
	defer rows.Close()

	prompts := []model.Prompt{}
	for rows.Next() {
		p := model.Prompt{}
		if err := rows.Scan(&p.ID, &p.Title, &p.Template); err != nil {
			return nil, fmt.Errorf("scanning prompt row: %w", err)
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating prompt rows: %w", err)
	}

	return prompts, nil
}
