package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"cryptofunds/internal/models"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	List(ctx context.Context, f models.ListFilter) ([]*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string, exceptID int64) (bool, error)
}

type InvestorRepo interface {
	Create(ctx context.Context, inv *models.Investor) (*models.Investor, error)
	GetByID(ctx context.Context, id int64) (*models.Investor, error)
	GetBySlug(ctx context.Context, slug string) (*models.Investor, error)
	List(ctx context.Context, f models.ListFilter) ([]*models.Investor, error)
	Update(ctx context.Context, inv *models.Investor) error
	Delete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string, exceptID int64) (bool, error)
}

type RoundRepo interface {
	Create(ctx context.Context, r *models.FundingRound) (*models.FundingRound, error)
	GetByID(ctx context.Context, id int64) (*models.FundingRound, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.FundingRound, error)
	ListByInvestor(ctx context.Context, investorID int64) ([]models.FundingRound, error)
	Update(ctx context.Context, r *models.FundingRound) error
	Delete(ctx context.Context, id int64) error
}

// ----- Projects -----

type projectRepo struct{ db *pgxpool.Pool }

func NewProjectRepo(db *pgxpool.Pool) ProjectRepo { return &projectRepo{db: db} }

const projectColumns = `id, slug, name, description, website, category, logo_url, is_active, created_at, updated_at`

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	if err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Description, &p.Website, &p.Category,
		&p.LogoURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *projectRepo) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	const q = `
		INSERT INTO projects (slug, name, description, website, category, logo_url, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING ` + projectColumns
	return scanProject(r.db.QueryRow(ctx, q,
		p.Slug, p.Name, p.Description, p.Website, p.Category, p.LogoURL, p.IsActive))
}

func (r *projectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	return scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id=$1`, id))
}

func (r *projectRepo) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug=$1`, slug))
}

func (r *projectRepo) List(ctx context.Context, f models.ListFilter) ([]*models.Project, error) {
	sql, args := listQuery(`SELECT `+projectColumns+` FROM projects`, f)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *projectRepo) Update(ctx context.Context, p *models.Project) error {
	const q = `
		UPDATE projects
		SET slug=$1, name=$2, description=$3, website=$4, category=$5, logo_url=$6, is_active=$7, updated_at=NOW()
		WHERE id=$8
	`
	tag, err := r.db.Exec(ctx, q, p.Slug, p.Name, p.Description, p.Website, p.Category, p.LogoURL, p.IsActive, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepo) SlugExists(ctx context.Context, slug string, exceptID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE slug=$1 AND id<>$2)`, slug, exceptID).Scan(&exists)
	return exists, err
}

// ----- Investors -----

type investorRepo struct{ db *pgxpool.Pool }

func NewInvestorRepo(db *pgxpool.Pool) InvestorRepo { return &investorRepo{db: db} }

const investorColumns = `id, slug, name, description, website, kind, logo_url, is_active, created_at, updated_at`

func scanInvestor(row rowScanner) (*models.Investor, error) {
	var inv models.Investor
	if err := row.Scan(
		&inv.ID, &inv.Slug, &inv.Name, &inv.Description, &inv.Website, &inv.Kind,
		&inv.LogoURL, &inv.IsActive, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &inv, nil
}

func (r *investorRepo) Create(ctx context.Context, inv *models.Investor) (*models.Investor, error) {
	const q = `
		INSERT INTO investors (slug, name, description, website, kind, logo_url, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING ` + investorColumns
	return scanInvestor(r.db.QueryRow(ctx, q,
		inv.Slug, inv.Name, inv.Description, inv.Website, inv.Kind, inv.LogoURL, inv.IsActive))
}

func (r *investorRepo) GetByID(ctx context.Context, id int64) (*models.Investor, error) {
	return scanInvestor(r.db.QueryRow(ctx, `SELECT `+investorColumns+` FROM investors WHERE id=$1`, id))
}

func (r *investorRepo) GetBySlug(ctx context.Context, slug string) (*models.Investor, error) {
	return scanInvestor(r.db.QueryRow(ctx, `SELECT `+investorColumns+` FROM investors WHERE slug=$1`, slug))
}

func (r *investorRepo) List(ctx context.Context, f models.ListFilter) ([]*models.Investor, error) {
	sql, args := listQuery(`SELECT `+investorColumns+` FROM investors`, f)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Investor
	for rows.Next() {
		inv, err := scanInvestor(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *investorRepo) Update(ctx context.Context, inv *models.Investor) error {
	const q = `
		UPDATE investors
		SET slug=$1, name=$2, description=$3, website=$4, kind=$5, logo_url=$6, is_active=$7, updated_at=NOW()
		WHERE id=$8
	`
	tag, err := r.db.Exec(ctx, q, inv.Slug, inv.Name, inv.Description, inv.Website, inv.Kind, inv.LogoURL, inv.IsActive, inv.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *investorRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM investors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *investorRepo) SlugExists(ctx context.Context, slug string, exceptID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM investors WHERE slug=$1 AND id<>$2)`, slug, exceptID).Scan(&exists)
	return exists, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE, чтобы поиск шёл по подстроке буквально.
func escapeLike(s string) string { return likeEscaper.Replace(s) }

// listQuery собирает WHERE/ORDER/LIMIT для списков проектов и инвесторов.
func listQuery(base string, f models.ListFilter) (string, []any) {
	where := []string{}
	args := []any{}
	i := 1

	if f.OnlyActive {
		where = append(where, "is_active = true")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, fmt.Sprintf(`(name ILIKE $%d ESCAPE '\' OR slug ILIKE $%d ESCAPE '\')`, i, i))
		args = append(args, "%"+escapeLike(q)+"%")
		i++
	}

	sql := base
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += fmt.Sprintf(" ORDER BY name, id LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, f.Limit, f.Offset)
	return sql, args
}

// ----- Funding rounds -----

type roundRepo struct{ db *pgxpool.Pool }

func NewRoundRepo(db *pgxpool.Pool) RoundRepo { return &roundRepo{db: db} }

const roundColumns = `id, project_id, stage, amount_usd, announced_at, investor_ids, source_url, created_at, updated_at`

func scanRound(row rowScanner) (*models.FundingRound, error) {
	var (
		fr          models.FundingRound
		investorRaw []byte
	)
	if err := row.Scan(
		&fr.ID, &fr.ProjectID, &fr.Stage, &fr.AmountUSD, &fr.AnnouncedAt,
		&investorRaw, &fr.SourceURL, &fr.CreatedAt, &fr.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	if err := json.Unmarshal(investorRaw, &fr.InvestorIDs); err != nil {
		return nil, fmt.Errorf("round %d investor_ids: %w", fr.ID, err)
	}
	return &fr, nil
}

func (r *roundRepo) Create(ctx context.Context, fr *models.FundingRound) (*models.FundingRound, error) {
	investorsJSON, err := json.Marshal(nonNilIDs(fr.InvestorIDs))
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO funding_rounds (project_id, stage, amount_usd, announced_at, investor_ids, source_url)
		VALUES ($1,$2,$3,$4,$5::jsonb,$6)
		RETURNING ` + roundColumns
	return scanRound(r.db.QueryRow(ctx, q,
		fr.ProjectID, fr.Stage, fr.AmountUSD, fr.AnnouncedAt, investorsJSON, fr.SourceURL))
}

func (r *roundRepo) GetByID(ctx context.Context, id int64) (*models.FundingRound, error) {
	return scanRound(r.db.QueryRow(ctx, `SELECT `+roundColumns+` FROM funding_rounds WHERE id=$1`, id))
}

func (r *roundRepo) ListByProject(ctx context.Context, projectID int64) ([]models.FundingRound, error) {
	return r.list(ctx,
		`SELECT `+roundColumns+` FROM funding_rounds WHERE project_id=$1
		 ORDER BY announced_at DESC NULLS LAST, id DESC`, projectID)
}

func (r *roundRepo) ListByInvestor(ctx context.Context, investorID int64) ([]models.FundingRound, error) {
	// investor_ids хранится jsonb-массивом чисел, ищем через @>
	return r.list(ctx,
		`SELECT `+roundColumns+` FROM funding_rounds WHERE investor_ids @> jsonb_build_array($1::bigint)
		 ORDER BY announced_at DESC NULLS LAST, id DESC`, investorID)
}

func (r *roundRepo) list(ctx context.Context, q string, args ...any) ([]models.FundingRound, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.FundingRound{}
	for rows.Next() {
		fr, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *fr)
	}
	return list, rows.Err()
}

func (r *roundRepo) Update(ctx context.Context, fr *models.FundingRound) error {
	investorsJSON, err := json.Marshal(nonNilIDs(fr.InvestorIDs))
	if err != nil {
		return err
	}
	const q = `
		UPDATE funding_rounds
		SET project_id=$1, stage=$2, amount_usd=$3, announced_at=$4, investor_ids=$5::jsonb, source_url=$6, updated_at=NOW()
		WHERE id=$7
	`
	tag, err := r.db.Exec(ctx, q, fr.ProjectID, fr.Stage, fr.AmountUSD, fr.AnnouncedAt, investorsJSON, fr.SourceURL, fr.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roundRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM funding_rounds WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
