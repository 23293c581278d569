// Package store persists scraped rosters and birth data in a single SQLite
// database file.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	_ "modernc.org/sqlite"

	"github.com/tr-officials/atlas/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS positions (
	slug       TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	list_url   TEXT NOT NULL,
	scraped_at INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS officials (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	position_slug TEXT NOT NULL REFERENCES positions(slug),
	row_order     INTEGER NOT NULL,
	name          TEXT NOT NULL,
	wiki_url      TEXT NOT NULL DEFAULT '',
	term_start    TEXT NOT NULL DEFAULT '',
	term_end      TEXT NOT NULL DEFAULT '',
	party         TEXT NOT NULL DEFAULT '',
	attrs         TEXT NOT NULL DEFAULT '{}',
	birth_date    TEXT NOT NULL DEFAULT '',
	birth_year    INTEGER NOT NULL DEFAULT 0,
	birth_place   TEXT NOT NULL DEFAULT '',
	bio_excerpt   TEXT NOT NULL DEFAULT '',
	UNIQUE(position_slug, row_order)
);

CREATE INDEX IF NOT EXISTS idx_officials_wiki_url ON officials(wiki_url);
CREATE INDEX IF NOT EXISTS idx_officials_name ON officials(name);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. Parent directories are created.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc's driver serializes writes; a single connection avoids
	// SQLITE_BUSY between the worker pool's write-backs.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("Database opened")
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceRoster replaces a position's rows wholesale inside one transaction,
// so a rescrape never leaves a half-updated roster behind.
func (s *Store) ReplaceRoster(ctx context.Context, pos models.Position, officials []models.Official) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO positions (slug, title, list_url, scraped_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET title = excluded.title, list_url = excluded.list_url, scraped_at = excluded.scraped_at`,
		pos.Slug, pos.Title, pos.ListURL, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("upsert position %s: %w", pos.Slug, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM officials WHERE position_slug = ?`, pos.Slug); err != nil {
		return fmt.Errorf("clear roster %s: %w", pos.Slug, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO officials (position_slug, row_order, name, wiki_url, term_start, term_end, party, attrs, birth_date, birth_year, birth_place, bio_excerpt)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range officials {
		attrs, err := json.Marshal(o.Attrs)
		if err != nil {
			return fmt.Errorf("encode attrs for %q: %w", o.Name, err)
		}
		if _, err := stmt.ExecContext(ctx,
			pos.Slug, o.RowOrder, o.Name, o.WikiURL, o.TermStart, o.TermEnd, o.Party,
			string(attrs), o.BirthDate, o.BirthYear, o.BirthPlace, o.BioExcerpt,
		); err != nil {
			return fmt.Errorf("insert %q: %w", o.Name, err)
		}
	}

	return tx.Commit()
}

// Filter narrows Officials queries.
type Filter struct {
	Position string
	Limit    int
}

const officialColumns = `id, position_slug, row_order, name, wiki_url, term_start, term_end, party, attrs, birth_date, birth_year, birth_place, bio_excerpt`

// Officials returns rows ordered by position and roster order.
func (s *Store) Officials(ctx context.Context, f Filter) ([]models.Official, error) {
	query := `SELECT ` + officialColumns + ` FROM officials`
	var args []any
	if f.Position != "" {
		query += ` WHERE position_slug = ?`
		args = append(args, f.Position)
	}
	query += ` ORDER BY position_slug, row_order`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOfficials(rows)
}

// PersonURLs returns distinct non-empty wiki URLs. With onlyMissing, only
// URLs for which every row still lacks birth data are returned.
func (s *Store) PersonURLs(ctx context.Context, onlyMissing bool) ([]string, error) {
	query := `SELECT DISTINCT wiki_url FROM officials WHERE wiki_url != ''`
	if onlyMissing {
		query += ` AND wiki_url NOT IN (
			SELECT wiki_url FROM officials WHERE wiki_url != '' AND (birth_year != 0 OR birth_place != '')
		)`
	}
	query += ` ORDER BY wiki_url`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// NamesWithoutLinks returns distinct names of rows that have no wiki URL.
func (s *Store) NamesWithoutLinks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT name FROM officials WHERE wiki_url = '' AND name != '' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// UpdateBirthInfo writes extracted birth fields to every row sharing the
// URL; the same person can hold several positions.
func (s *Store) UpdateBirthInfo(ctx context.Context, url string, info models.BirthInfo) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE officials SET birth_date = ?, birth_year = ?, birth_place = ?, bio_excerpt = ? WHERE wiki_url = ?`,
		info.BirthDate, info.BirthYear, info.BirthPlace, info.Excerpt, url)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetWikiURLByName adopts a guessed URL for rows that have none.
func (s *Store) SetWikiURLByName(ctx context.Context, name, url string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE officials SET wiki_url = ? WHERE name = ? AND wiki_url = ''`, url, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// OverrideBirthplace applies a manual correction by name. Year 0 leaves the
// stored year untouched.
func (s *Store) OverrideBirthplace(ctx context.Context, name, place string, year int) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if year != 0 {
		res, err = s.db.ExecContext(ctx,
			`UPDATE officials SET birth_place = ?, birth_year = ? WHERE name = ?`, place, year, name)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE officials SET birth_place = ? WHERE name = ?`, place, name)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PositionCount summarizes one position's stored rows.
type PositionCount struct {
	Slug           string
	Title          string
	Count          int
	WithBirthYear  int
	WithBirthPlace int
}

// CountsByPosition reports per-position record and birth-data counts.
func (s *Store) CountsByPosition(ctx context.Context) ([]PositionCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.slug, p.title,
			COUNT(o.id),
			COALESCE(SUM(CASE WHEN o.birth_year != 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN o.birth_place != '' THEN 1 ELSE 0 END), 0)
		FROM positions p
		LEFT JOIN officials o ON o.position_slug = p.slug
		GROUP BY p.slug, p.title
		ORDER BY p.slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []PositionCount
	for rows.Next() {
		var c PositionCount
		if err := rows.Scan(&c.Slug, &c.Title, &c.Count, &c.WithBirthYear, &c.WithBirthPlace); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// PositionState is a registry row plus the time its roster was last scraped.
type PositionState struct {
	models.Position
	ScrapedAt time.Time
}

// Positions returns the stored position registry rows.
func (s *Store) Positions(ctx context.Context) ([]PositionState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug, title, list_url, scraped_at FROM positions ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []PositionState
	for rows.Next() {
		var p PositionState
		var scraped int64
		if err := rows.Scan(&p.Slug, &p.Title, &p.ListURL, &scraped); err != nil {
			return nil, err
		}
		if scraped > 0 {
			p.ScrapedAt = time.Unix(scraped, 0).UTC()
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// Search matches the query case-insensitively (Turkish casing) against
// names and scraped cell values. SQLite's lower() only folds ASCII, so the
// folding happens here.
func (s *Store) Search(ctx context.Context, query string) ([]models.Official, error) {
	all, err := s.Officials(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	needle := foldTR(query)
	if needle == "" {
		return nil, nil
	}

	var matches []models.Official
	for _, o := range all {
		if strings.Contains(foldTR(o.Name), needle) || strings.Contains(foldTR(o.BirthPlace), needle) {
			matches = append(matches, o)
			continue
		}
		for _, v := range o.Attrs {
			if strings.Contains(foldTR(v), needle) {
				matches = append(matches, o)
				break
			}
		}
	}
	return matches, nil
}

func foldTR(s string) string {
	return cases.Lower(language.Turkish).String(strings.TrimSpace(s))
}

func scanOfficials(rows *sql.Rows) ([]models.Official, error) {
	var officials []models.Official
	for rows.Next() {
		var (
			o     models.Official
			attrs string
		)
		if err := rows.Scan(&o.ID, &o.PositionSlug, &o.RowOrder, &o.Name, &o.WikiURL,
			&o.TermStart, &o.TermEnd, &o.Party, &attrs,
			&o.BirthDate, &o.BirthYear, &o.BirthPlace, &o.BioExcerpt); err != nil {
			return nil, err
		}
		if attrs != "" && attrs != "{}" {
			if err := json.Unmarshal([]byte(attrs), &o.Attrs); err != nil {
				return nil, fmt.Errorf("decode attrs for %q: %w", o.Name, err)
			}
		}
		officials = append(officials, o)
	}
	return officials, rows.Err()
}
