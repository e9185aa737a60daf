// Package seed fills a development database with fake users, posts and interactions.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/zfogg/picfeed/internal/logger"
	"github.com/zfogg/picfeed/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubjectPrefix marks identity subjects created by the seeder so Clean can find them
const SubjectPrefix = "seed|"

// Counts controls how much data a seed run creates
type Counts struct {
	Users    int
	Posts    int
	Likes    int
	Comments int
	Follows  int
}

// DevCounts is used by `seed dev`
var DevCounts = Counts{Users: 25, Posts: 150, Likes: 900, Comments: 400, Follows: 120}

// TestCounts is used by `seed test`
var TestCounts = Counts{Users: 5, Posts: 12, Likes: 20, Comments: 15, Follows: 8}

// Seeder handles database seeding operations
type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	rng   *rand.Rand
}

// NewSeeder creates a seeder; a zero seed picks one from the clock
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{
		db:    db,
		faker: gofakeit.New(uint64(seed)),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Seed creates users, then posts spread over the last 30 days, then likes,
// comments and follows between them. Duplicate likes and follows are skipped.
func (s *Seeder) Seed(counts Counts) ([]models.User, error) {
	logger.Log.Info("Creating users...", zap.Int("count", counts.Users))
	users, err := s.seedUsers(counts.Users)
	if err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	if len(users) == 0 {
		return users, nil
	}

	logger.Log.Info("Creating posts...", zap.Int("count", counts.Posts))
	posts, err := s.seedPosts(users, counts.Posts)
	if err != nil {
		return nil, fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Log.Info("Creating likes...", zap.Int("count", counts.Likes))
	if err := s.seedLikes(users, posts, counts.Likes); err != nil {
		return nil, fmt.Errorf("failed to seed likes: %w", err)
	}

	logger.Log.Info("Creating comments...", zap.Int("count", counts.Comments))
	if err := s.seedComments(users, posts, counts.Comments); err != nil {
		return nil, fmt.Errorf("failed to seed comments: %w", err)
	}

	logger.Log.Info("Creating follows...", zap.Int("count", counts.Follows))
	if err := s.seedFollows(users, counts.Follows); err != nil {
		return nil, fmt.Errorf("failed to seed follows: %w", err)
	}

	return users, nil
}

// Clean removes every seeded user; foreign keys cascade to their posts,
// likes, comments and follows.
func (s *Seeder) Clean() (int64, error) {
	result := s.db.Where("idp_subject LIKE ?", SubjectPrefix+"%").Delete(&models.User{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clean users: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	seen := make(map[string]bool)

	for len(users) < count {
		first, last := s.faker.FirstName(), s.faker.LastName()
		username := strings.ToLower(fmt.Sprintf("%s_%s", first, last))
		username = strings.NewReplacer(" ", "", "'", "", "-", "_").Replace(username)
		if len(username) > 26 {
			username = username[:26]
		}
		if seen[username] {
			username = fmt.Sprintf("%s%d", username, s.rng.Intn(1000))
		}
		if seen[username] {
			continue
		}
		seen[username] = true

		user := models.User{
			IDPSubject:  SubjectPrefix + uuid.NewString(),
			Username:    username,
			DisplayName: first + " " + last,
			AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/300?u=%s", username),
		}
		result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedPosts(users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	now := time.Now().UTC()

	for i := 0; i < count; i++ {
		author := users[s.rng.Intn(len(users))]
		id := uuid.NewString()

		var caption *string
		if s.rng.Intn(5) > 0 {
			c := s.faker.HipsterSentence()
			if s.rng.Intn(3) == 0 {
				c += " #" + strings.ToLower(s.faker.Noun())
			}
			caption = &c
		}

		post := models.Post{
			ID:        id,
			UserID:    author.ID,
			ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/1080/1080", id),
			Caption:   caption,
			CreatedAt: now.Add(-time.Duration(s.rng.Int63n(int64(30 * 24 * time.Hour)))),
		}
		if err := s.db.Omit(clause.Associations).Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedLikes(users []models.User, posts []models.Post, count int) error {
	if len(posts) == 0 {
		return nil
	}
	for i := 0; i < count; i++ {
		like := models.Like{
			PostID: posts[s.rng.Intn(len(posts))].ID,
			UserID: users[s.rng.Intn(len(users))].ID,
		}
		err := s.db.Clauses(clause.OnConflict{DoNothing: true}).
			Omit(clause.Associations).
			Create(&like).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedComments(users []models.User, posts []models.Post, count int) error {
	if len(posts) == 0 {
		return nil
	}
	for i := 0; i < count; i++ {
		post := posts[s.rng.Intn(len(posts))]
		content := s.faker.HipsterSentence()
		if len(content) > models.MaxCommentLength {
			content = content[:models.MaxCommentLength]
		}

		comment := models.Comment{
			PostID:    post.ID,
			UserID:    users[s.rng.Intn(len(users))].ID,
			Content:   content,
			CreatedAt: post.CreatedAt.Add(time.Duration(s.rng.Int63n(int64(48 * time.Hour)))),
		}
		if err := s.db.Omit(clause.Associations).Create(&comment).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedFollows(users []models.User, count int) error {
	if len(users) < 2 {
		return nil
	}
	for i := 0; i < count; i++ {
		follower := users[s.rng.Intn(len(users))]
		following := users[s.rng.Intn(len(users))]
		if follower.ID == following.ID {
			continue
		}
		follow := models.Follow{FollowerID: follower.ID, FollowingID: following.ID}
		err := s.db.Clauses(clause.OnConflict{DoNothing: true}).
			Omit(clause.Associations).
			Create(&follow).Error
		if err != nil {
			return err
		}
	}
	return nil
}
