package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/campus-grievance/grievance-service/internal/domain"
	"github.com/campus-grievance/grievance-service/internal/repository"
)

type issueRepository struct {
	db  *issueTable
	now func() time.Time
}

// NewIssueRepository returns a repository.IssueRepository over db.
func NewIssueRepository(db *DB) repository.IssueRepository {
	return &issueRepository{db: db.issues, now: db.now}
}

func (r *issueRepository) Create(_ context.Context, issue *domain.Issue) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, exists := r.db.table[issue.ID]; exists {
		return repository.ErrDuplicate
	}
	now := r.now()
	issue.CreatedAt = now
	issue.UpdatedAt = now
	r.db.seq++
	r.db.table[issue.ID] = &issueRow{seq: r.db.seq, issue: *issue}
	return nil
}

func (r *issueRepository) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if row, ok := r.db.table[id]; ok {
		found := row.issue
		return &found, nil
	}
	return nil, repository.ErrNotFound
}

func (r *issueRepository) UpdateStatus(_ context.Context, id string, status domain.IssueStatus) (*domain.Issue, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	row, ok := r.db.table[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	row.issue.Status = status
	row.issue.UpdatedAt = r.now()
	updated := row.issue
	return &updated, nil
}

// List returns matching issues, newest first.
func (r *issueRepository) List(_ context.Context, filter repository.IssueFilter) ([]domain.Issue, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	rows := make([]*issueRow, 0, len(r.db.table))
	for _, row := range r.db.table {
		if filter.Matches(&row.issue) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	issues := make([]domain.Issue, 0, len(rows))
	for _, row := range rows {
		issues = append(issues, row.issue)
	}
	return issues, nil
}

func (r *issueRepository) CountByStatus(_ context.Context, filter repository.IssueFilter) (domain.IssueStats, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var stats domain.IssueStats
	for _, row := range r.db.table {
		if filter.Matches(&row.issue) {
			stats.Add(row.issue.Status, 1)
		}
	}
	return stats, nil
}
