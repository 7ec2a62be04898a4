package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr string
	}{
		{"valid", CreateUserRequest{Username: "ayse_k", Password: "longenough"}, ""},
		{"short username", CreateUserRequest{Username: "ab", Password: "longenough"}, "between 3 and 32"},
		{"bad char", CreateUserRequest{Username: "ayse k", Password: "longenough"}, "letters, numbers"},
		{"short password", CreateUserRequest{Username: "ayse", Password: "short"}, "at least 8"},
		{"bad email", CreateUserRequest{Username: "ayse", Password: "longenough", Email: "nope"}, "email"},
		{"long display name", CreateUserRequest{Username: "ayse", Password: "longenough", DisplayName: strings.Repeat("x", 33)}, "display name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateBoardRequest_Validate(t *testing.T) {
	t.Run("normalizes slug and defaults write role", func(t *testing.T) {
		req := CreateBoardRequest{Slug: "  Go-Talk ", Name: " Go talk "}
		require.NoError(t, req.Validate())
		assert.Equal(t, "go-talk", req.Slug)
		assert.Equal(t, "Go talk", req.Name)
		assert.Equal(t, RoleUser, req.WriteRole)
	})

	t.Run("parses lowercase role", func(t *testing.T) {
		req := CreateBoardRequest{Slug: "news", Name: "News", WriteRole: "admin"}
		require.NoError(t, req.Validate())
		assert.Equal(t, RoleAdmin, req.WriteRole)
	})

	for _, slug := range []string{"a", "-news", "news-", "new_s", strings.Repeat("a", 41)} {
		t.Run("rejects slug "+slug, func(t *testing.T) {
			req := CreateBoardRequest{Slug: slug, Name: "x"}
			assert.Error(t, req.Validate())
		})
	}

	t.Run("rejects unknown role", func(t *testing.T) {
		req := CreateBoardRequest{Slug: "news", Name: "News", WriteRole: "OWNER"}
		assert.Error(t, req.Validate())
	})
}

func TestUpdateBoardRequest_Validate(t *testing.T) {
	req := UpdateBoardRequest{Slug: ptr("  MIXED "), CategoryID: ptr("  "), Position: ptr(2)}
	require.NoError(t, req.Validate())
	assert.Equal(t, "mixed", *req.Slug)
	assert.Equal(t, "", *req.CategoryID)

	bad := UpdateBoardRequest{Position: ptr(-1)}
	assert.Error(t, bad.Validate())
}

func TestPostRequests_Validate(t *testing.T) {
	create := CreatePostRequest{Title: "  Hello ", Content: " body "}
	require.NoError(t, create.Validate())
	assert.Equal(t, "Hello", create.Title)
	assert.Equal(t, "body", create.Content)

	assert.Error(t, (&CreatePostRequest{Title: " ", Content: "x"}).Validate())
	assert.Error(t, (&CreatePostRequest{Title: "x", Content: strings.Repeat("a", 20001)}).Validate())

	assert.Error(t, (&UpdatePostRequest{}).Validate(), "empty update")
	assert.Error(t, (&UpdatePostRequest{Title: ptr("")}).Validate())
	assert.NoError(t, (&UpdatePostRequest{Content: ptr("new")}).Validate())
}

func TestCategoryRequests_Validate(t *testing.T) {
	assert.NoError(t, (&CreateCategoryRequest{Name: "General"}).Validate())
	assert.Error(t, (&CreateCategoryRequest{Name: "   "}).Validate())
	assert.Error(t, (&UpdateCategoryRequest{Position: ptr(-3)}).Validate())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("moderator")
	assert.Error(t, err)
}

func TestUser_Name(t *testing.T) {
	assert.Equal(t, "ayse", (&User{Username: "ayse"}).Name())
	assert.Equal(t, "ayse", (&User{Username: "ayse", DisplayName: ptr("")}).Name())
	assert.Equal(t, "Ayşe K.", (&User{Username: "ayse", DisplayName: ptr("Ayşe K.")}).Name())
}
