package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	_ "github.com/lib/pq"

	"github.com/kapu/elfname-go/internal/domain"
)

// CLI flags
var (
	dryRun  = flag.Bool("dry-run", false, "Run without committing to database")
	dbHost  = flag.String("db-host", "localhost", "PostgreSQL host")
	dbPort  = flag.Int("db-port", 5432, "PostgreSQL port")
	dbUser  = flag.String("db-user", "elfname", "PostgreSQL user")
	dbPass  = flag.String("db-pass", "", "PostgreSQL password")
	dbName  = flag.String("db-name", "elfname", "PostgreSQL database")
	sslMode = flag.String("sslmode", "disable", "PostgreSQL sslmode")
	verbose = flag.Bool("verbose", false, "Verbose output")
)

const schema = `
CREATE TABLE IF NOT EXISTS lexicon_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fallback_names (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS blocked_terms (
	category TEXT NOT NULL,
	term     TEXT NOT NULL,
	PRIMARY KEY (category, term)
);

CREATE TABLE IF NOT EXISTS theme_words (
	category TEXT NOT NULL,
	word     TEXT NOT NULL,
	PRIMARY KEY (category, word)
);
`

func main() {
	flag.Parse()

	log.Println("===============================")
	log.Println("Lexicon to PostgreSQL Migration")
	log.Println("===============================")

	if *dryRun {
		log.Println("[DRY RUN MODE] No database changes will be made")
	}

	// Step 1: Load the embedded lexicon
	lex, err := domain.LoadDefaultLexicon()
	if err != nil {
		log.Fatalf("Failed to load embedded lexicon: %v", err)
	}
	log.Printf("✓ Loaded lexicon version %d (%d fallback names, %d blocked categories, %d theme categories)",
		lex.Version, len(lex.FallbackNames), len(lex.BlockedTerms), len(lex.ThemeWords))

	if *dryRun {
		printSummary(lex)
		log.Println("✓ Dry-run completed successfully")
		return
	}

	// Step 2: Connect to database
	db, err := connectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Step 3: Write the lexicon
	if err := insertLexicon(db, lex); err != nil {
		log.Fatalf("Failed to write lexicon: %v", err)
	}

	log.Println("✓ Migration completed successfully")
}

func connectDB() (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		*dbHost, *dbPort, *dbUser, *dbPass, *dbName, *sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func insertLexicon(db *sql.DB, lex *domain.Lexicon) error {
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	log.Println("✓ Schema ensured")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Replace wholesale so entries removed upstream do not linger
	for _, table := range []string{"lexicon_meta", "fallback_names", "blocked_terms", "theme_words"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO lexicon_meta (version) VALUES ($1)`, lex.Version); err != nil {
		return fmt.Errorf("failed to insert version: %w", err)
	}

	for i, name := range lex.FallbackNames {
		if _, err := tx.ExecContext(ctx, `INSERT INTO fallback_names (position, name) VALUES ($1, $2)`, i, name); err != nil {
			return fmt.Errorf("failed to insert fallback name %q: %w", name, err)
		}
		if *verbose {
			log.Printf("  → fallback %2d: %s", i, name)
		}
	}

	if err := insertCategorized(ctx, tx, `INSERT INTO blocked_terms (category, term) VALUES ($1, $2)`, lex.BlockedTerms); err != nil {
		return fmt.Errorf("failed to insert blocked terms: %w", err)
	}

	if err := insertCategorized(ctx, tx, `INSERT INTO theme_words (category, word) VALUES ($1, $2)`, lex.ThemeWords); err != nil {
		return fmt.Errorf("failed to insert theme words: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("✓ Wrote %d fallback names, %d blocked terms, %d theme words",
		len(lex.FallbackNames), countEntries(lex.BlockedTerms), countEntries(lex.ThemeWords))
	return nil
}

func insertCategorized(ctx context.Context, tx *sql.Tx, query string, entries map[string][]string) error {
	categories := make([]string, 0, len(entries))
	for cat := range entries {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		for _, value := range entries[cat] {
			if _, err := tx.ExecContext(ctx, query, cat, value); err != nil {
				return fmt.Errorf("%s/%s: %w", cat, value, err)
			}
		}
	}
	return nil
}

func countEntries(m map[string][]string) int {
	n := 0
	for _, list := range m {
		n += len(list)
	}
	return n
}

func printSummary(lex *domain.Lexicon) {
	log.Println("===== Migration Summary =====")
	log.Printf("Lexicon version: %d", lex.Version)
	log.Printf("Fallback names: %d", len(lex.FallbackNames))
	for i, name := range lex.FallbackNames {
		log.Printf("  %2d: %s", i, name)
	}
	log.Printf("Blocked terms: %d in %d categories", countEntries(lex.BlockedTerms), len(lex.BlockedTerms))
	log.Printf("Theme words: %d in %d categories", countEntries(lex.ThemeWords), len(lex.ThemeWords))
	log.Println("=============================")
}
