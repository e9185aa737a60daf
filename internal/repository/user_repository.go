package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zfogg/picfeed/internal/models"
	"gorm.io/gorm"
)

// Identity is the subset of IdP claims used to provision a user
type Identity struct {
	Subject     string
	Username    string
	DisplayName string
	AvatarURL   string
}

// UserRepository handles all database operations for users
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// GetByIDs loads users in the order of ids, skipping ids with no row
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	GetBySubject(ctx context.Context, subject string) (*models.User, error)
	// UpsertFromIdentity returns the user for the identity's subject, creating it on first sight
	UpsertFromIdentity(ctx context.Context, identity Identity) (*models.User, error)
	Search(ctx context.Context, query string, limit int) ([]*models.User, error)
	Stats(ctx context.Context, userID string) (*models.UserStats, error)
	StatsFor(ctx context.Context, userIDs []string) (map[string]*models.UserStats, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	var rows []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(rows))
	for _, u := range rows {
		byID[u.ID] = u
	}

	users := make([]*models.User, 0, len(rows))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
			delete(byID, id)
		}
	}
	return users, nil
}

// GetBySubject gets a user by IdP subject
func (r *userRepository) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("idp_subject = ?", subject).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

const maxUsernameAttempts = 5

func (r *userRepository) UpsertFromIdentity(ctx context.Context, identity Identity) (*models.User, error) {
	if identity.Subject == "" {
		return nil, ErrInvalidInput
	}

	user, err := r.GetBySubject(ctx, identity.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	base := normalizeUsername(identity.Username)
	if base == "" {
		base = "user"
	}
	displayName := strings.TrimSpace(identity.DisplayName)
	if displayName == "" {
		displayName = base
	}

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		username := base
		if attempt > 0 {
			username = fmt.Sprintf("%s%d", base, attempt+1)
		}

		user = &models.User{
			IDPSubject:  identity.Subject,
			Username:    username,
			DisplayName: displayName,
			AvatarURL:   identity.AvatarURL,
		}
		err = translate(r.db.WithContext(ctx).Create(user).Error)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}

		// a concurrent request may have provisioned the same subject
		if existing, getErr := r.GetBySubject(ctx, identity.Subject); getErr == nil {
			return existing, nil
		}
	}

	return nil, fmt.Errorf("allocate username for %q: %w", base, ErrConflict)
}

// Search finds users whose username or display name contains query (case-insensitive)
func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.User{}, nil
	}
	if limit <= 0 || limit > MaxPageLimit {
		limit = 20
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	var users []*models.User
	err := r.db.WithContext(ctx).
		Where(`LOWER(username) LIKE ? ESCAPE '\' OR LOWER(display_name) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// Stats reads the aggregate row for a user
func (r *userRepository) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, translate(err)
	}
	return &stats, nil
}

func (r *userRepository) StatsFor(ctx context.Context, userIDs []string) (map[string]*models.UserStats, error) {
	result := make(map[string]*models.UserStats, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []*models.UserStats
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.UserID] = row
	}
	return result, nil
}

func normalizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteRune('_')
		}
	}
	out := b.String()
	if len(out) > 30 {
		out = out[:30]
	}
	return out
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
