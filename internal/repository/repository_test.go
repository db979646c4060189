package repository

import (
	"context"
	"fmt"
	"testing"

	"quill/internal/database"
	"quill/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, t.Name()),
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, user *models.User, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:   title,
		Content: "content of " + title,
		UserID:  user.ID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createTestComment(t *testing.T, db *gorm.DB, user *models.User, post *models.Post, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{Content: content, UserID: user.ID, PostID: post.ID}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func testCtx() context.Context {
	return context.Background()
}
