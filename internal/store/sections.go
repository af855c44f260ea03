package store

import (
	"context"
	"database/sql"
	"fmt"

	"makebuilder/internal/jsonutil"
	"makebuilder/internal/section"
)

// SectionRepo stores the sections of one page.
type SectionRepo struct {
	db     *sql.DB
	pageID int
}

// NewSectionRepo creates a repo scoped to pageID.
func NewSectionRepo(db *sql.DB, pageID int) *SectionRepo {
	return &SectionRepo{db: db, pageID: pageID}
}

// Ensure SectionRepo implements section.Persister.
var _ section.Persister = (*SectionRepo)(nil)

// List returns the page's sections in stage order.
func (r *SectionRepo) List(ctx context.Context) ([]section.Section, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT section_number, section_type, fields
	FROM sections
	WHERE page_id = ?
	ORDER BY position, section_number`, r.pageID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var out []section.Section
	for rows.Next() {
		var (
			s      section.Section
			fields string
		)
		if err := rows.Scan(&s.Number, &s.Type, &fields); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		s.Fields, err = jsonutil.DecodeStringMap([]byte(fields), fmt.Sprintf("section %d fields", s.Number))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Save inserts or replaces a section at position.
func (r *SectionRepo) Save(ctx context.Context, s section.Section, position int) error {
	fields, err := jsonutil.EncodeStringMap(s.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO sections(page_id, section_number, section_type, position, fields)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(page_id, section_number) DO UPDATE SET
		section_type = excluded.section_type,
		position = excluded.position,
		fields = excluded.fields`,
		r.pageID, s.Number, s.Type, position, string(fields))
	if err != nil {
		return fmt.Errorf("save section %d: %w", s.Number, err)
	}
	return nil
}

// Delete removes a section.
func (r *SectionRepo) Delete(ctx context.Context, number int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sections WHERE page_id = ? AND section_number = ?`, r.pageID, number)
	if err != nil {
		return fmt.Errorf("delete section %d: %w", number, err)
	}
	return nil
}

// Reorder rewrites positions so numbers appear in the given order.
func (r *SectionRepo) Reorder(ctx context.Context, numbers []int64) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for pos, n := range numbers {
			if _, err := tx.ExecContext(ctx,
				`UPDATE sections SET position = ? WHERE page_id = ? AND section_number = ?`,
				pos, r.pageID, n); err != nil {
				return fmt.Errorf("reorder section %d: %w", n, err)
			}
		}
		return nil
	})
}

// UpdateFields replaces a section's field values.
func (r *SectionRepo) UpdateFields(ctx context.Context, number int64, fields map[string]string) error {
	b, err := jsonutil.EncodeStringMap(fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE sections SET fields = ? WHERE page_id = ? AND section_number = ?`,
		string(b), r.pageID, number)
	if err != nil {
		return fmt.Errorf("update section %d: %w", number, err)
	}
	return nil
}
