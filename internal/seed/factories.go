// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the plaintext password of every seeded user.
const SeedPassword = "password"

// draftRatio is the fraction of seeded posts left unpublished.
const draftRatio = 0.2

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
	// bcrypt of SeedPassword, computed once; hashing per user is slow
	passwordHash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	hash, _ := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	return &Factory{
		db:           db,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}
}

// CreateUser constructs and persists a sample user. The email carries a UUID
// suffix so repeated seeding never collides with the unique index.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Name:     gofakeit.Name(),
		Email:    fmt.Sprintf("%s.%s@example.com", gofakeit.Username(), uuid.NewString()[:8]),
		Password: f.passwordHash,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post owned by user. Roughly one
// in five posts is left as a draft; created_at is spread over the last 90 days.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:   gofakeit.Sentence(f.rnd.Intn(6) + 3),
		Content: gofakeit.Paragraph(2, 4, 12, "\n\n"),
		UserID:  user.ID,
	}

	createdAt := time.Now().
		Add(-time.Duration(f.rnd.Intn(90*24)) * time.Hour).
		Add(-time.Duration(f.rnd.Intn(60)) * time.Minute)
	post.CreatedAt = createdAt

	if f.rnd.Float64() >= draftRatio {
		publishedAt := createdAt.Add(time.Duration(f.rnd.Intn(48)) * time.Hour)
		post.PublishedAt = &publishedAt
	}

	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a sample comment by user on post.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(f.rnd.Intn(12) + 3),
		UserID:  user.ID,
		PostID:  post.ID,
	}
	for _, override := range overrides {
		override(comment)
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
