// Package authz holds the ownership predicates that decide whether an acting
// identity may mutate a resource. The server enforces these; response shaping
// (is_owner) and the API client's display helpers reuse the same definitions.
package authz

import "quill/internal/models"

// Owns reports whether actorID is the owner identified by ownerID.
// An unauthenticated actor (zero ID) owns nothing.
func Owns(actorID, ownerID uint) bool {
	return actorID != 0 && actorID == ownerID
}

// CanMutatePost reports whether the actor may update or delete the post.
func CanMutatePost(actorID uint, post *models.Post) bool {
	return post != nil && Owns(actorID, post.UserID)
}

// CanMutateComment reports whether the actor may delete the comment.
func CanMutateComment(actorID uint, comment *models.Comment) bool {
	return comment != nil && Owns(actorID, comment.UserID)
}
