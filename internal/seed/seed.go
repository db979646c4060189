package seed

import (
	"fmt"
	"log"
	"math/rand"

	"quill/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
	ShouldClean bool
}

// Seed populates the database with demo users, posts and comments.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users, %d posts, %d comments...", opts.NumUsers, opts.NumPosts, opts.NumComments)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clear existing data: %w", err)
		}
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users (password %q)", len(users), SeedPassword)

	if len(users) == 0 {
		return nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		post, err := f.CreatePost(users[rand.Intn(len(users))])
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("created %d posts", len(posts))

	if len(posts) == 0 {
		return nil
	}

	for i := 0; i < opts.NumComments; i++ {
		if _, err := f.CreateComment(users[rand.Intn(len(users))], posts[rand.Intn(len(posts))]); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
	}
	log.Printf("created %d comments", opts.NumComments)

	return nil
}

// clearData removes all rows, children first. Hard deletes so reseeding starts
// from a truly empty database.
func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.Comment{},
		&models.Token{},
		&models.Post{},
		&models.User{},
	} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
