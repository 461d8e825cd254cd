package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/Zachkp/folio/internal/apperr"
)

const schema = `
CREATE TABLE IF NOT EXISTS profile (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	name TEXT NOT NULL,
	brand TEXT,
	tagline TEXT,
	photo TEXT,
	resume TEXT,
	about TEXT,       -- JSON array of paragraphs
	highlights TEXT,  -- JSON array of {title, detail}
	contact TEXT,     -- JSON object
	footer TEXT
);

CREATE TABLE IF NOT EXISTS sections (
	position INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	title TEXT
);

CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY,
	position INTEGER NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	technologies TEXT, -- JSON array, order preserved
	image TEXT,
	live_link TEXT,
	github_link TEXT,
	readme TEXT
);

CREATE TABLE IF NOT EXISTS skills (
	position INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	icon TEXT,
	technologies TEXT
);

CREATE TABLE IF NOT EXISTS experience (
	position INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	company TEXT,
	period TEXT,
	description TEXT
);

CREATE TABLE IF NOT EXISTS certificates (
	position INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	issuer TEXT,
	file TEXT,
	image TEXT
);`

// Store persists site content in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the content database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open content db %s: %w", path, err)
	}
	// SQLite serializes writers anyway; one connection keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create content schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored content with site.
func (s *Store) Save(ctx context.Context, site *Site) error {
	if err := site.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"profile", "sections", "projects", "skills", "experience", "certificates"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	p := site.Profile
	about, err := json.Marshal(p.About)
	if err != nil {
		return err
	}
	highlights, err := json.Marshal(p.Highlights)
	if err != nil {
		return err
	}
	contact, err := json.Marshal(p.Contact)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profile (id, name, brand, tagline, photo, resume, about, highlights, contact, footer)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Brand, p.Tagline, p.Photo, p.Resume, string(about), string(highlights), string(contact), p.Footer,
	); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	for i, sec := range site.Sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (position, id, title) VALUES (?, ?, ?)`,
			i, sec.ID, sec.Title,
		); err != nil {
			return fmt.Errorf("insert section %s: %w", sec.ID, err)
		}
	}

	for i, pr := range site.Projects {
		tech, err := json.Marshal(pr.Technologies)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO projects (id, position, title, description, technologies, image, live_link, github_link, readme)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pr.ID, i, pr.Title, pr.Description, string(tech), pr.Image, pr.LiveLink, pr.GithubLink, pr.Readme,
		); err != nil {
			return fmt.Errorf("insert project %d: %w", pr.ID, err)
		}
	}

	for i, g := range site.Skills {
		tech, err := json.Marshal(g.Technologies)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skills (position, name, icon, technologies) VALUES (?, ?, ?, ?)`,
			i, g.Name, g.Icon, string(tech),
		); err != nil {
			return fmt.Errorf("insert skill %s: %w", g.Name, err)
		}
	}

	for i, e := range site.Experience {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO experience (position, title, company, period, description) VALUES (?, ?, ?, ?, ?)`,
			i, e.Title, e.Company, e.Period, e.Description,
		); err != nil {
			return fmt.Errorf("insert experience %s: %w", e.Title, err)
		}
	}

	for i, c := range site.Certificates {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO certificates (position, name, issuer, file, image) VALUES (?, ?, ?, ?, ?)`,
			i, c.Name, c.Issuer, c.File, c.Image,
		); err != nil {
			return fmt.Errorf("insert certificate %s: %w", c.Name, err)
		}
	}

	return tx.Commit()
}

// Site reads the stored content. It returns apperr.ErrNotFound when the
// database has never been seeded.
func (s *Store) Site(ctx context.Context) (*Site, error) {
	site := &Site{}

	var about, highlights, contact string
	p := &site.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT name, COALESCE(brand, ''), COALESCE(tagline, ''), COALESCE(photo, ''), COALESCE(resume, ''),
		       COALESCE(about, 'null'), COALESCE(highlights, 'null'), COALESCE(contact, '{}'), COALESCE(footer, '')
		FROM profile WHERE id = 1`,
	).Scan(&p.Name, &p.Brand, &p.Tagline, &p.Photo, &p.Resume, &about, &highlights, &contact, &p.Footer)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content db has no profile: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if err := json.Unmarshal([]byte(about), &p.About); err != nil {
		return nil, fmt.Errorf("decode about: %w", err)
	}
	if err := json.Unmarshal([]byte(highlights), &p.Highlights); err != nil {
		return nil, fmt.Errorf("decode highlights: %w", err)
	}
	if err := json.Unmarshal([]byte(contact), &p.Contact); err != nil {
		return nil, fmt.Errorf("decode contact: %w", err)
	}

	if err := s.readSections(ctx, site); err != nil {
		return nil, err
	}
	if err := s.readProjects(ctx, site); err != nil {
		return nil, err
	}
	if err := s.readSkills(ctx, site); err != nil {
		return nil, err
	}
	if err := s.readExperience(ctx, site); err != nil {
		return nil, err
	}
	if err := s.readCertificates(ctx, site); err != nil {
		return nil, err
	}

	if err := site.Validate(); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *Store) readSections(ctx context.Context, site *Site) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, COALESCE(title, '') FROM sections ORDER BY position`)
	if err != nil {
		return fmt.Errorf("read sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sec Section
		if err := rows.Scan(&sec.ID, &sec.Title); err != nil {
			return fmt.Errorf("scan section: %w", err)
		}
		site.Sections = append(site.Sections, sec)
	}
	return rows.Err()
}

func (s *Store) readProjects(ctx context.Context, site *Site) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, COALESCE(description, ''), COALESCE(technologies, 'null'), COALESCE(image, ''),
		       COALESCE(live_link, ''), COALESCE(github_link, ''), COALESCE(readme, '')
		FROM projects ORDER BY position`)
	if err != nil {
		return fmt.Errorf("read projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pr   Project
			tech string
		)
		if err := rows.Scan(&pr.ID, &pr.Title, &pr.Description, &tech, &pr.Image, &pr.LiveLink, &pr.GithubLink, &pr.Readme); err != nil {
			return fmt.Errorf("scan project: %w", err)
		}
		if err := json.Unmarshal([]byte(tech), &pr.Technologies); err != nil {
			return fmt.Errorf("decode technologies of project %d: %w", pr.ID, err)
		}
		site.Projects = append(site.Projects, pr)
	}
	return rows.Err()
}

func (s *Store) readSkills(ctx context.Context, site *Site) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, COALESCE(icon, ''), COALESCE(technologies, 'null') FROM skills ORDER BY position`)
	if err != nil {
		return fmt.Errorf("read skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			g    SkillGroup
			tech string
		)
		if err := rows.Scan(&g.Name, &g.Icon, &tech); err != nil {
			return fmt.Errorf("scan skill: %w", err)
		}
		if err := json.Unmarshal([]byte(tech), &g.Technologies); err != nil {
			return fmt.Errorf("decode technologies of skill %s: %w", g.Name, err)
		}
		site.Skills = append(site.Skills, g)
	}
	return rows.Err()
}

func (s *Store) readExperience(ctx context.Context, site *Site) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, COALESCE(company, ''), COALESCE(period, ''), COALESCE(description, '')
		FROM experience ORDER BY position`)
	if err != nil {
		return fmt.Errorf("read experience: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e Experience
		if err := rows.Scan(&e.Title, &e.Company, &e.Period, &e.Description); err != nil {
			return fmt.Errorf("scan experience: %w", err)
		}
		site.Experience = append(site.Experience, e)
	}
	return rows.Err()
}

func (s *Store) readCertificates(ctx context.Context, site *Site) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, COALESCE(issuer, ''), COALESCE(file, ''), COALESCE(image, '')
		FROM certificates ORDER BY position`)
	if err != nil {
		return fmt.Errorf("read certificates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Certificate
		if err := rows.Scan(&c.Name, &c.Issuer, &c.File, &c.Image); err != nil {
			return fmt.Errorf("scan certificate: %w", err)
		}
		site.Certificates = append(site.Certificates, c)
	}
	return rows.Err()
}
