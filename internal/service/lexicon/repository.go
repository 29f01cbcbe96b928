package lexicon

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/domain"
	"github.com/kapu/elfname-go/internal/service/database"
)

// Repository reads the safety lexicon from PostgreSQL. The lexicon is loaded
// once at startup; lookups at request time never touch the database.
type Repository struct {
	postgres *database.PostgresService
	logger   *zap.Logger
}

func NewRepository(postgres *database.PostgresService, logger *zap.Logger) *Repository {
	return &Repository{
		postgres: postgres,
		logger:   logger,
	}
}

// Load reads the stored lexicon. Fallback names keep their stored position
// order, which fallback selection indexes into, so a partial read is an error
// rather than a degraded result.
func (r *Repository) Load(ctx context.Context) (*domain.Lexicon, error) {
	lex := &domain.Lexicon{
		BlockedTerms: make(map[string][]string),
		ThemeWords:   make(map[string][]string),
	}

	db := r.postgres.GetDB()

	if err := db.QueryRowContext(ctx, `SELECT version FROM lexicon_meta LIMIT 1`).Scan(&lex.Version); err != nil {
		return nil, fmt.Errorf("failed to query lexicon version: %w", err)
	}

	nameRows, err := db.QueryContext(ctx, `SELECT name FROM fallback_names ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fallback names: %w", err)
	}
	defer nameRows.Close()

	for nameRows.Next() {
		var name string
		if err := nameRows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan fallback name: %w", err)
		}
		lex.FallbackNames = append(lex.FallbackNames, name)
	}
	if err := nameRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fallback names: %w", err)
	}

	if err := r.loadCategorized(ctx, `SELECT category, term FROM blocked_terms ORDER BY category, term`, lex.BlockedTerms); err != nil {
		return nil, fmt.Errorf("failed to read blocked terms: %w", err)
	}

	if err := r.loadCategorized(ctx, `SELECT category, word FROM theme_words ORDER BY category, word`, lex.ThemeWords); err != nil {
		return nil, fmt.Errorf("failed to read theme words: %w", err)
	}

	if err := lex.Validate(); err != nil {
		return nil, fmt.Errorf("stored lexicon invalid: %w", err)
	}

	r.logger.Info("Lexicon loaded from PostgreSQL",
		zap.Int("version", lex.Version),
		zap.Int("fallback_names", len(lex.FallbackNames)),
	)

	return lex, nil
}

func (r *Repository) loadCategorized(ctx context.Context, query string, dest map[string][]string) error {
	rows, err := r.postgres.GetDB().QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var category, value string
		if err := rows.Scan(&category, &value); err != nil {
			return err
		}
		dest[category] = append(dest[category], value)
	}

	return rows.Err()
}
