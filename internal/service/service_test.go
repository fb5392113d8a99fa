package service

import (
	"context"
	"testing"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/store/inmemory"
)

func newTestService(t *testing.T) (*Service, *inmemory.Store) {
	t.Helper()
	st := inmemory.New()
	return New(st, nil), st
}

func seedPost(t *testing.T, svc *Service, authorID int64, title string) *models.Post {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), authorID, PostDraft{
		Title:    title,
		Content:  "본문 내용",
		Category: "notice",
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	return post
}

func seedComment(t *testing.T, svc *Service, authorID, postID int64, parentID *int64) *models.Comment {
	t.Helper()
	comment, err := svc.CreateComment(context.Background(), authorID, postID, "댓글 내용", parentID)
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	return comment
}

func TestIdentityCanModify(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		authorID int64
		want     bool
	}{
		{"author", Identity{UserID: 7, Role: models.RoleResident}, 7, true},
		{"other resident", Identity{UserID: 7, Role: models.RoleResident}, 8, false},
		{"admin over foreign content", Identity{UserID: 1, Role: models.RoleAdmin}, 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.identity.canModify(tt.authorID); got != tt.want {
				t.Errorf("canModify(%d) = %v, want %v", tt.authorID, got, tt.want)
			}
		})
	}
}
