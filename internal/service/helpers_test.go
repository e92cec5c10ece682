package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-grievance/grievance-service/internal/config"
	"github.com/campus-grievance/grievance-service/internal/domain"
	"github.com/campus-grievance/grievance-service/internal/events"
	"github.com/campus-grievance/grievance-service/internal/repository"
	"github.com/campus-grievance/grievance-service/internal/repository/inmem"
)

type fixture struct {
	db         *inmem.DB
	users      repository.UserRepository
	issues     repository.IssueRepository
	dispatcher events.Dispatcher
	auth       *AuthService
	issueSvc   *IssueService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := inmem.NewDB()
	f := &fixture{
		db:         db,
		users:      inmem.NewUserRepository(db),
		issues:     inmem.NewIssueRepository(db),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	var err error
	f.auth, err = NewAuthService(config.AuthConfig{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost}, AuthDependencies{UserRepo: f.users})
	require.NoError(t, err)
	f.issueSvc = NewIssueService(IssueDependencies{IssueRepo: f.issues, UserRepo: f.users, Dispatcher: f.dispatcher})
	return f
}

func (f *fixture) register(t *testing.T, name string, role domain.Role) *domain.Principal {
	t.Helper()
	user, err := f.auth.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    name + "@campus.edu",
		Password: "secret-" + name,
		Role:     role,
	})
	require.NoError(t, err)
	return domain.NewPrincipal(user)
}

func (f *fixture) file(t *testing.T, p *domain.Principal, title string, sensitive, anonymous bool) *IssueView {
	t.Helper()
	view, err := f.issueSvc.Create(context.Background(), p, CreateIssueInput{Title: title, Sensitive: sensitive, Anonymous: anonymous})
	require.NoError(t, err)
	return view
}

func ids(views []IssueView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Issue.ID)
	}
	return out
}
