package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"cryptofunds/internal/models"
)

type PageRepo interface {
	Create(ctx context.Context, p *models.Page) (*models.Page, error)
	GetByID(ctx context.Context, id int64) (*models.Page, error)
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)
	List(ctx context.Context, limit, offset int, onlyActive bool) ([]*models.Page, error)
	Update(ctx context.Context, p *models.Page) error
	Delete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string, exceptID int64) (bool, error)
}

type pageRepo struct{ db *pgxpool.Pool }

func NewPageRepo(db *pgxpool.Pool) PageRepo { return &pageRepo{db: db} }

const pageColumns = `id, slug, title, description, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*models.Page, error) {
	var p models.Page
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *pageRepo) Create(ctx context.Context, p *models.Page) (*models.Page, error) {
	const q = `
		INSERT INTO pages (slug, title, description, is_active)
		VALUES ($1,$2,$3,$4)
		RETURNING ` + pageColumns
	return scanPage(r.db.QueryRow(ctx, q, p.Slug, p.Title, p.Description, p.IsActive))
}

func (r *pageRepo) GetByID(ctx context.Context, id int64) (*models.Page, error) {
	return scanPage(r.db.QueryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE id=$1`, id))
}

func (r *pageRepo) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	return scanPage(r.db.QueryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug=$1`, slug))
}

func (r *pageRepo) List(ctx context.Context, limit, offset int, onlyActive bool) ([]*models.Page, error) {
	q := `SELECT ` + pageColumns + ` FROM pages`
	if onlyActive {
		q += ` WHERE is_active = true`
	}
	q += ` ORDER BY title, id LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *pageRepo) Update(ctx context.Context, p *models.Page) error {
	const q = `
		UPDATE pages
		SET slug=$1, title=$2, description=$3, is_active=$4, updated_at=NOW()
		WHERE id=$5
	`
	tag, err := r.db.Exec(ctx, q, p.Slug, p.Title, p.Description, p.IsActive, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pageRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SlugExists проверяет уникальность slug, не считая запись exceptID (0 значит без исключений).
func (r *pageRepo) SlugExists(ctx context.Context, slug string, exceptID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pages WHERE slug=$1 AND id<>$2)`, slug, exceptID).Scan(&exists)
	return exists, err
}
