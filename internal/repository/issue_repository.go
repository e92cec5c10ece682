package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-grievance/grievance-service/internal/domain"
)

// IssueFilter restricts listing queries. Nil fields are not applied.
type IssueFilter struct {
	ReporterID *string
	Sensitive  *bool
}

// Matches reports whether issue satisfies the filter.
func (f IssueFilter) Matches(issue *domain.Issue) bool {
	if f.ReporterID != nil && issue.ReporterID != *f.ReporterID {
		return false
	}
	if f.Sensitive != nil && issue.Sensitive != *f.Sensitive {
		return false
	}
	return true
}

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	// UpdateStatus overwrites the status unconditionally; concurrent
	// writers race and the last one wins.
	UpdateStatus(ctx context.Context, id string, status domain.IssueStatus) (*domain.Issue, error)
	CountByStatus(ctx context.Context, filter IssueFilter) (domain.IssueStats, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

const issueColumns = `id, reporter_id, title, description, status, sensitive, anonymous, created_at, updated_at`

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (id, reporter_id, title, description, status, sensitive, anonymous)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		issue.ID,
		issue.ReporterID,
		issue.Title,
		issue.Description,
		issue.Status,
		issue.Sensitive,
		issue.Anonymous,
	).Scan(&issue.CreatedAt, &issue.UpdatedAt)
	return mapError(err)
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	const query = `SELECT ` + issueColumns + ` FROM issues WHERE id=$1`
	return scanIssue(r.pool.QueryRow(ctx, query, id))
}

func (r *issueRepository) UpdateStatus(ctx context.Context, id string, status domain.IssueStatus) (*domain.Issue, error) {
	const query = `
        UPDATE issues SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + issueColumns
	return scanIssue(r.pool.QueryRow(ctx, query, status, id))
}

func (r *issueRepository) List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	where, args := filterClause(filter)
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE %s ORDER BY created_at DESC`, issueColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	issues := []domain.Issue{}
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, *issue)
	}
	return issues, mapError(rows.Err())
}

func (r *issueRepository) CountByStatus(ctx context.Context, filter IssueFilter) (domain.IssueStats, error) {
	where, args := filterClause(filter)
	query := fmt.Sprintf(`SELECT status, COUNT(*) FROM issues WHERE %s GROUP BY status`, where)

	var stats domain.IssueStats
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return stats, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status domain.IssueStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return stats, mapError(err)
		}
		stats.Add(status, count)
	}
	return stats, mapError(rows.Err())
}

func filterClause(filter IssueFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}
	if filter.Sensitive != nil {
		args = append(args, *filter.Sensitive)
		clauses = append(clauses, fmt.Sprintf("sensitive=$%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func scanIssue(row pgx.Row) (*domain.Issue, error) {
	var issue domain.Issue
	if err := row.Scan(
		&issue.ID,
		&issue.ReporterID,
		&issue.Title,
		&issue.Description,
		&issue.Status,
		&issue.Sensitive,
		&issue.Anonymous,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &issue, nil
}
