package inmem

import (
	"context"
	"time"

	"github.com/campus-grievance/grievance-service/internal/domain"
	"github.com/campus-grievance/grievance-service/internal/repository"
)

type userRepository struct {
	db  *userTable
	now func() time.Time
}

// NewUserRepository returns a repository.UserRepository over db.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db.users, now: db.now}
}

func (r *userRepository) emailTaken(email, excludeID string) bool {
	for id, usr := range r.db.table {
		if usr.Email == email && id != excludeID {
			return true
		}
	}
	return false
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, exists := r.db.table[user.ID]; exists || r.emailTaken(user.Email, "") {
		return repository.ErrDuplicate
	}
	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.db.table[user.ID] = &stored
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	stored, ok := r.db.table[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return repository.ErrDuplicate
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.UpdatedAt = r.now()
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if usr, ok := r.db.table[id]; ok {
		found := *usr
		return &found, nil
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, usr := range r.db.table {
		if usr.Email == email {
			found := *usr
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if usr, ok := r.db.table[id]; ok {
			users = append(users, *usr)
		}
	}
	return users, nil
}
