package inmem

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-grievance/grievance-service/internal/domain"
	"github.com/campus-grievance/grievance-service/internal/repository"
)

func newUser(email string) *domain.User {
	return &domain.User{ID: uuid.NewString(), Name: "n", Email: email, PasswordHash: "h", Role: domain.RoleStudent}
}

func TestUserRepositoryUniqueEmail(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	users := NewUserRepository(db)

	first := newUser("a@campus.edu")
	require.NoError(t, users.Create(ctx, first))
	assert.ErrorIs(t, users.Create(ctx, newUser("a@campus.edu")), repository.ErrDuplicate)

	second := newUser("b@campus.edu")
	require.NoError(t, users.Create(ctx, second))
	second.Email = "a@campus.edu"
	assert.ErrorIs(t, users.Update(ctx, second), repository.ErrDuplicate)

	found, err := users.GetByEmail(ctx, "b@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)
}

func TestUserRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	users := NewUserRepository(db)

	_, err := users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	usr := newUser("c@campus.edu")
	require.NoError(t, users.Create(ctx, usr))
	db.DeleteUser(usr.ID)
	_, err = users.GetByID(ctx, usr.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, users.Update(ctx, usr), repository.ErrNotFound)
}

func TestIssueRepositoryFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	issues := NewIssueRepository(NewDB())

	alice, bob := "alice", "bob"
	create := func(reporter string, sensitive bool) *domain.Issue {
		issue := &domain.Issue{ID: uuid.NewString(), ReporterID: reporter, Title: "t", Status: domain.IssueStatusPending, Sensitive: sensitive}
		require.NoError(t, issues.Create(ctx, issue))
		return issue
	}
	a1 := create(alice, false)
	a2 := create(alice, true)
	b1 := create(bob, false)

	all, err := issues.List(ctx, repository.IssueFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{b1.ID, a2.ID, a1.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	notSensitive := false
	open, err := issues.List(ctx, repository.IssueFilter{Sensitive: &notSensitive})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	own, err := issues.List(ctx, repository.IssueFilter{ReporterID: &alice})
	require.NoError(t, err)
	assert.Len(t, own, 2)

	_, err = issues.UpdateStatus(ctx, a1.ID, domain.IssueStatusResolved)
	require.NoError(t, err)
	stats, err := issues.CountByStatus(ctx, repository.IssueFilter{ReporterID: &alice})
	require.NoError(t, err)
	assert.Equal(t, domain.IssueStats{Total: 2, Pending: 1, Resolved: 1}, stats)

	_, err = issues.UpdateStatus(ctx, "missing", domain.IssueStatusResolved)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIssueRepositoryLastWriterWins(t *testing.T) {
	ctx := context.Background()
	issues := NewIssueRepository(NewDB())
	issue := &domain.Issue{ID: uuid.NewString(), ReporterID: "r", Title: "t", Status: domain.IssueStatusPending}
	require.NoError(t, issues.Create(ctx, issue))

	var wg sync.WaitGroup
	for _, status := range domain.IssueStatuses {
		wg.Add(1)
		go func(status domain.IssueStatus) {
			defer wg.Done()
			_, _ = issues.UpdateStatus(ctx, issue.ID, status)
		}(status)
	}
	wg.Wait()

	_, err := issues.UpdateStatus(ctx, issue.ID, domain.IssueStatusInProgress)
	require.NoError(t, err)
	got, err := issues.GetByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IssueStatusInProgress, got.Status)
}
