package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/counselbook/reserve/internal/model"
	"github.com/counselbook/reserve/internal/repository/base"
)

type LinkTokenRepository struct {
	*base.Repository
}

func NewLinkTokenRepository(pool *pgxpool.Pool) *LinkTokenRepository {
	return &LinkTokenRepository{Repository: base.NewRepository(pool)}
}

// Create persists a new token record. Only the hash is ever stored.
func (r *LinkTokenRepository) Create(ctx context.Context, token *model.EmailLinkToken) error {
	query := `
		INSERT INTO email_link_tokens (counselor_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		token.CounselorID,
		token.TokenHash,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)

	if err != nil {
		return fmt.Errorf("create link token: %w", err)
	}

	return nil
}

// GetByHash returns the token record matching the hash, or nil when absent.
func (r *LinkTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*model.EmailLinkToken, error) {
	query := `
		SELECT id, counselor_id, token_hash, expires_at, used_at, created_at
		FROM email_link_tokens
		WHERE token_hash = $1
	`

	var token model.EmailLinkToken
	err := r.QueryRow(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.CounselorID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.UsedAt,
		&token.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get link token by hash: %w", err)
	}

	return &token, nil
}
