package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	postKeyPrefix     = "post:%d"
	postsFirstPageKey = "posts:page1"
)

const (
	// PostTTL bounds staleness of a cached post detail.
	PostTTL = 30 * time.Minute
	// ListTTL is short; the first list page churns on every write.
	ListTTL = 1 * time.Minute
)

// PostKey returns the cache key for a post detail.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// PostsFirstPageKey returns the cache key for the unfiltered first list page.
func PostsFirstPageKey() string {
	return postsFirstPageKey
}

// Invalidate removes a single key. Safe to call with no client configured.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the cached detail for a post and the first list page.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, postsFirstPageKey)
}

// InvalidatePostsList drops the cached first list page.
func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, postsFirstPageKey)
}
