package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	for _, bad := range []string{"", "student", "ADMIN", "Janitor"} {
		_, err := ParseRole(bad)
		assert.Error(t, err, bad)
	}
	assert.True(t, RoleFaculty.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
	assert.False(t, RoleStudent.IsStaff())
}

func TestParseIssueStatusIsCaseSensitive(t *testing.T) {
	for _, s := range IssueStatuses {
		got, err := ParseIssueStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	for _, bad := range []string{"", "pending", "In progress", "InProgress", "Closed", " Resolved"} {
		_, err := ParseIssueStatus(bad)
		assert.Error(t, err, bad)
	}
}

func TestIssueStatsAdd(t *testing.T) {
	var stats IssueStats
	stats.Add(IssueStatusPending, 2)
	stats.Add(IssueStatusInProgress, 1)
	stats.Add(IssueStatusResolved, 3)
	assert.Equal(t, IssueStats{Total: 6, Pending: 2, InProgress: 1, Resolved: 3}, stats)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a.b@campus.edu", NormalizeEmail("  A.B@Campus.EDU "))
}

func TestNewPrincipal(t *testing.T) {
	u := &User{ID: "u1", Role: RoleFaculty}
	p := NewPrincipal(u)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, RoleFaculty, p.Role)
	assert.Same(t, u, p.User)
}
