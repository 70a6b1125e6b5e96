package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cryptofunds/internal/models"
)

// SectionRepo хранит разделы вместе с их таблицами. Таблицы всегда пишутся целиком:
// при обновлении старые удаляются и создаются заново из присланного списка.
type SectionRepo interface {
	Create(ctx context.Context, s *models.Section) (*models.Section, error)
	GetByID(ctx context.Context, id int64) (*models.Section, error)
	ListByPage(ctx context.Context, pageID int64) ([]*models.Section, error)
	Update(ctx context.Context, s *models.Section) error
	Delete(ctx context.Context, id int64) error
}

type sectionRepo struct{ db *pgxpool.Pool }

func NewSectionRepo(db *pgxpool.Pool) SectionRepo { return &sectionRepo{db: db} }

const sectionColumns = `id, page_id, title, description, table_of_content, is_table_of_content_visible, position, created_at, updated_at`

const tableColumns = `id, section_id, title, table_of_content, headers, rows, caption, is_active, is_table_of_content_visible, position`

func scanSection(row rowScanner) (*models.Section, error) {
	var s models.Section
	if err := row.Scan(
		&s.ID, &s.PageID, &s.Title, &s.Description, &s.TableOfContent,
		&s.IsTableOfContentVisible, &s.Position, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	s.Tables = []models.Table{}
	return &s, nil
}

func scanTable(row rowScanner) (models.Table, error) {
	var (
		t                   models.Table
		headersRaw, rowsRaw []byte
	)
	if err := row.Scan(
		&t.ID, &t.SectionID, &t.Title, &t.TableOfContent, &headersRaw, &rowsRaw,
		&t.Caption, &t.IsActive, &t.IsTableOfContentVisible, &t.Position,
	); err != nil {
		return t, err
	}
	if err := json.Unmarshal(headersRaw, &t.Headers); err != nil {
		return t, fmt.Errorf("table %d headers: %w", t.ID, err)
	}
	if err := json.Unmarshal(rowsRaw, &t.Rows); err != nil {
		return t, fmt.Errorf("table %d rows: %w", t.ID, err)
	}
	return t, nil
}

func (r *sectionRepo) Create(ctx context.Context, s *models.Section) (*models.Section, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `
		INSERT INTO sections (page_id, title, description, table_of_content, is_table_of_content_visible, position)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING ` + sectionColumns
	created, err := scanSection(tx.QueryRow(ctx, q,
		s.PageID, s.Title, s.Description, s.TableOfContent, s.IsTableOfContentVisible, s.Position,
	))
	if err != nil {
		return nil, err
	}

	if created.Tables, err = insertTables(ctx, tx, created.ID, s.Tables); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *sectionRepo) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	s, err := scanSection(r.db.QueryRow(ctx, `SELECT `+sectionColumns+` FROM sections WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}

	byID, err := r.tablesFor(ctx, []int64{s.ID})
	if err != nil {
		return nil, err
	}
	if tables, ok := byID[s.ID]; ok {
		s.Tables = tables
	}
	return s, nil
}

func (r *sectionRepo) ListByPage(ctx context.Context, pageID int64) ([]*models.Section, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE page_id=$1 ORDER BY position, id`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		list []*models.Section
		ids  []int64
	)
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	byID, err := r.tablesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		if tables, ok := byID[s.ID]; ok {
			s.Tables = tables
		}
	}
	return list, nil
}

// tablesFor грузит таблицы разделов в порядке отображения (position, id).
func (r *sectionRepo) tablesFor(ctx context.Context, sectionIDs []int64) (map[int64][]models.Table, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+tableColumns+` FROM section_tables WHERE section_id = ANY($1) ORDER BY section_id, position, id`,
		sectionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]models.Table, len(sectionIDs))
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out[t.SectionID] = append(out[t.SectionID], t)
	}
	return out, rows.Err()
}

func (r *sectionRepo) Update(ctx context.Context, s *models.Section) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `
		UPDATE sections
		SET page_id=$1, title=$2, description=$3, table_of_content=$4,
		    is_table_of_content_visible=$5, position=$6, updated_at=NOW()
		WHERE id=$7
	`
	tag, err := tx.Exec(ctx, q,
		s.PageID, s.Title, s.Description, s.TableOfContent, s.IsTableOfContentVisible, s.Position, s.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM section_tables WHERE section_id=$1`, s.ID); err != nil {
		return err
	}
	if s.Tables, err = insertTables(ctx, tx, s.ID, s.Tables); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *sectionRepo) Delete(ctx context.Context, id int64) error {
	// таблицы удаляются каскадом
	tag, err := r.db.Exec(ctx, `DELETE FROM sections WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertTables(ctx context.Context, tx pgx.Tx, sectionID int64, tables []models.Table) ([]models.Table, error) {
	const q = `
		INSERT INTO section_tables
		    (section_id, title, table_of_content, headers, rows, caption, is_active, is_table_of_content_visible, position)
		VALUES ($1,$2,$3,$4::jsonb,$5::jsonb,$6,$7,$8,$9)
		RETURNING ` + tableColumns

	out := make([]models.Table, 0, len(tables))
	for i, t := range tables {
		headersJSON, err := json.Marshal(nonNilHeaders(t.Headers))
		if err != nil {
			return nil, err
		}
		rowsJSON, err := json.Marshal(nonNilRows(t.Rows))
		if err != nil {
			return nil, err
		}

		saved, err := scanTable(tx.QueryRow(ctx, q,
			sectionID, t.Title, t.TableOfContent, headersJSON, rowsJSON, t.Caption,
			t.IsActive, t.IsTableOfContentVisible, i,
		))
		if err != nil {
			return nil, fmt.Errorf("insert table %d: %w", i, err)
		}
		out = append(out, saved)
	}
	return out, nil
}

func nonNilHeaders(h []string) []string {
	if h == nil {
		return []string{}
	}
	return h
}

func nonNilRows(r [][]string) [][]string {
	if r == nil {
		return [][]string{}
	}
	return r
}
