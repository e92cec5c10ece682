package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-grievance/grievance-service/internal/domain"
	apperrors "github.com/campus-grievance/grievance-service/pkg/util"
)

var (
	student = &domain.Principal{UserID: "student-1", Role: domain.RoleStudent}
	other   = &domain.Principal{UserID: "student-2", Role: domain.RoleStudent}
	faculty = &domain.Principal{UserID: "faculty-1", Role: domain.RoleFaculty}
	admin   = &domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin}
	unknown = &domain.Principal{UserID: "ghost", Role: domain.Role("Janitor")}
)

func issue(reporter string, sensitive, anonymous bool) *domain.Issue {
	return &domain.Issue{ID: "i", ReporterID: reporter, Title: "t", Status: domain.IssueStatusPending, Sensitive: sensitive, Anonymous: anonymous}
}

func TestCanView(t *testing.T) {
	tests := []struct {
		name      string
		requester *domain.Principal
		sensitive bool
		want      bool
	}{
		{"admin sees open", admin, false, true},
		{"admin sees sensitive", admin, true, true},
		{"faculty sees open", faculty, false, true},
		{"faculty never sees sensitive", faculty, true, false},
		{"student sees own open", student, false, true},
		{"student sees own sensitive", student, true, true},
		{"student cannot see others open", other, false, false},
		{"student cannot see others sensitive", other, true, false},
		{"unknown role sees nothing", unknown, false, false},
		{"nil requester sees nothing", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanView(tt.requester, issue(student.UserID, tt.sensitive, false)))
		})
	}
}

func TestListScope(t *testing.T) {
	filter, err := ListScope(admin)
	require.NoError(t, err)
	assert.Nil(t, filter.Sensitive)
	assert.Nil(t, filter.ReporterID)

	filter, err = ListScope(faculty)
	require.NoError(t, err)
	require.NotNil(t, filter.Sensitive)
	assert.False(t, *filter.Sensitive)
	assert.False(t, filter.Matches(issue("x", true, false)))
	assert.True(t, filter.Matches(issue("x", false, false)))

	_, err = ListScope(student)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = ListScope(unknown)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = ListScope(nil)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestOwnAndStatsScope(t *testing.T) {
	own := OwnScope(student)
	assert.True(t, own.Matches(issue(student.UserID, true, false)))
	assert.False(t, own.Matches(issue(other.UserID, false, false)))

	filter, err := StatsScope(student)
	require.NoError(t, err)
	assert.Equal(t, student.UserID, *filter.ReporterID)

	filter, err = StatsScope(faculty)
	require.NoError(t, err)
	assert.False(t, *filter.Sensitive)

	_, err = StatsScope(unknown)
	assert.Error(t, err)
}

func TestAuthorizeStatusChange(t *testing.T) {
	tests := []struct {
		name      string
		requester *domain.Principal
		sensitive bool
		wantCode  string
	}{
		{"admin open", admin, false, ""},
		{"admin sensitive", admin, true, ""},
		{"faculty open", faculty, false, ""},
		{"faculty sensitive", faculty, true, apperrors.CodeForbidden},
		{"student own", student, false, apperrors.CodeForbidden},
		{"unknown role", unknown, false, apperrors.CodeForbidden},
		{"nil requester", nil, false, apperrors.CodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeStatusChange(tt.requester, issue(student.UserID, tt.sensitive, false))
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.IsCode(err, tt.wantCode), "got %v", err)
		})
	}

	assert.True(t, CanChangeStatus(domain.RoleAdmin))
	assert.True(t, CanChangeStatus(domain.RoleFaculty))
	assert.False(t, CanChangeStatus(domain.RoleStudent))
	assert.False(t, CanChangeStatus(domain.Role("Janitor")))
}

func TestParseTargetStatus(t *testing.T) {
	for _, raw := range []string{"Pending", "In Progress", "Resolved"} {
		status, err := ParseTargetStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, string(status))
	}
	for _, raw := range []string{"", "pending", "Closed", "IN_PROGRESS", "Resolved "} {
		_, err := ParseTargetStatus(raw)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidStatus), "raw %q", raw)
	}
}

func TestValidateTransitionAllowsAnyOrder(t *testing.T) {
	for _, from := range domain.IssueStatuses {
		for _, to := range domain.IssueStatuses {
			assert.NoError(t, ValidateTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.NoError(t, ValidateTransition(domain.IssueStatusResolved, domain.IssueStatusPending))
	assert.True(t, apperrors.IsCode(ValidateTransition(domain.IssueStatusPending, "Closed"), apperrors.CodeInvalidStatus))
}

func TestRevealReporter(t *testing.T) {
	anon := issue(student.UserID, false, true)
	named := issue(student.UserID, false, false)
	sensitiveAnon := issue(student.UserID, true, true)

	assert.True(t, RevealReporter(admin, anon))
	assert.True(t, RevealReporter(admin, sensitiveAnon))
	assert.True(t, RevealReporter(faculty, named))
	assert.False(t, RevealReporter(faculty, anon))
	assert.False(t, RevealReporter(faculty, sensitiveAnon))
	assert.True(t, RevealReporter(student, anon))
	assert.False(t, RevealReporter(other, named))
}
