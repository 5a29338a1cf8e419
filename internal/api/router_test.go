package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/plateful/plateful-backend/config"
	"github.com/plateful/plateful-backend/internal/service"
	"github.com/plateful/plateful-backend/internal/testhelpers"
)

// setupTestRouter builds the full route tree against an in-memory database.
// Redis is nil, so rate limiting and the reset cooldown are disabled.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		StorageBackend: config.StorageBackendLocal,
		UploadDir:      t.TempDir(),
	}

	router := gin.New()
	imageStore := service.NewLocalImageStore(cfg.UploadDir, "/uploads")
	RegisterRoutes(router, db, nil, imageStore, service.NewMailer(cfg), cfg)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account through the API and returns its token.
func registerAndLogin(t *testing.T, router *gin.Engine, name, email string) string {
	t.Helper()

	w := doJSON(t, router, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// createRecipe posts a minimal public recipe and returns its id.
func createRecipe(t *testing.T, router *gin.Engine, token, title string) string {
	t.Helper()

	w := doJSON(t, router, "POST", "/api/v1/recipes", token, map[string]interface{}{
		"title":        title,
		"description":  "test",
		"category":     "dinner",
		"servings":     2,
		"ingredients":  []string{"salt"},
		"instructions": []string{"cook"},
		"public":       true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Recipe struct {
			ID string `json:"id"`
		} `json:"recipe"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Recipe.ID)
	return resp.Recipe.ID
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestAuthRequired(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/api/v1/recipes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/recipes", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRegisterValidation(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Alice",
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	router, _ := setupTestRouter(t)

	registerAndLogin(t, router, "Alice", "a@x.com")

	w := doJSON(t, router, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Imposter",
		"email":    "a@x.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "EMAIL_TAKEN")
}

func TestRecipeLifecycleOverHTTP(t *testing.T) {
	router, _ := setupTestRouter(t)

	token := registerAndLogin(t, router, "Alice", "a@x.com")
	id := createRecipe(t, router, token, "Pancakes")

	// The detail view is public and carries like count plus comments.
	w := doJSON(t, router, "GET", "/api/v1/recipes/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		Recipe struct {
			Title string `json:"title"`
		} `json:"recipe"`
		LikeCount int64                    `json:"like_count"`
		Comments  []map[string]interface{} `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Pancakes", detail.Recipe.Title)
	assert.EqualValues(t, 0, detail.LikeCount)
	assert.Empty(t, detail.Comments)

	w = doJSON(t, router, "PUT", "/api/v1/recipes/"+id, token, map[string]interface{}{
		"title": "Banana Pancakes",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Banana Pancakes")

	w = doJSON(t, router, "DELETE", "/api/v1/recipes/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/recipes/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestRecipeUpdateForbiddenForNonOwner(t *testing.T) {
	router, _ := setupTestRouter(t)

	ownerToken := registerAndLogin(t, router, "Alice", "a@x.com")
	otherToken := registerAndLogin(t, router, "Bob", "b@x.com")
	id := createRecipe(t, router, ownerToken, "Pancakes")

	w := doJSON(t, router, "PUT", "/api/v1/recipes/"+id, otherToken, map[string]interface{}{
		"title": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRecipeUpdateIgnoresOwnerField(t *testing.T) {
	router, _ := setupTestRouter(t)

	ownerToken := registerAndLogin(t, router, "Alice", "a@x.com")
	registerAndLogin(t, router, "Bob", "b@x.com")
	id := createRecipe(t, router, ownerToken, "Pancakes")

	var detail struct {
		Recipe struct {
			UserID string `json:"user_id"`
			Public bool   `json:"public"`
		} `json:"recipe"`
	}
	w := doJSON(t, router, "GET", "/api/v1/recipes/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	ownerID := detail.Recipe.UserID

	// A body smuggling id/user_id must not reassign the recipe, and a
	// false public flag must actually stick.
	w = doJSON(t, router, "PUT", "/api/v1/recipes/"+id, ownerToken, map[string]interface{}{
		"id":      "11111111-1111-1111-1111-111111111111",
		"user_id": "22222222-2222-2222-2222-222222222222",
		"public":  false,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, "GET", "/api/v1/recipes/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, ownerID, detail.Recipe.UserID)
	assert.False(t, detail.Recipe.Public)
}

func TestLikeToggleOverHTTP(t *testing.T) {
	router, _ := setupTestRouter(t)

	ownerToken := registerAndLogin(t, router, "Alice", "a@x.com")
	likerToken := registerAndLogin(t, router, "Bob", "b@x.com")
	id := createRecipe(t, router, ownerToken, "Pancakes")

	w := doJSON(t, router, "POST", fmt.Sprintf("/api/v1/recipes/%s/like", id), likerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Liked     bool  `json:"liked"`
		LikeCount int64 `json:"like_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Liked)
	assert.EqualValues(t, 1, resp.LikeCount)

	w = doJSON(t, router, "POST", fmt.Sprintf("/api/v1/recipes/%s/like", id), likerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Liked)
	assert.EqualValues(t, 0, resp.LikeCount)
}

func TestCommentFlowOverHTTP(t *testing.T) {
	router, _ := setupTestRouter(t)

	ownerToken := registerAndLogin(t, router, "Alice", "a@x.com")
	commenterToken := registerAndLogin(t, router, "Bob", "b@x.com")
	id := createRecipe(t, router, ownerToken, "Pancakes")

	w := doJSON(t, router, "POST", fmt.Sprintf("/api/v1/recipes/%s/comments", id), commenterToken, map[string]interface{}{
		"text": "Great recipe!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var posted struct {
		Comment struct {
			ID string `json:"id"`
		} `json:"comment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posted))
	commentID := posted.Comment.ID
	require.NotEmpty(t, commentID)

	// The owner sees the comment notification.
	w = doJSON(t, router, "GET", "/api/v1/notifications", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var notifications struct {
		Notifications []struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		} `json:"notifications"`
		UnreadCount int64 `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notifications))
	require.Len(t, notifications.Notifications, 1)
	assert.Contains(t, notifications.Notifications[0].Message, "Bob")
	assert.EqualValues(t, 1, notifications.UnreadCount)

	// The commenter cannot reply; the owner can.
	replyPath := fmt.Sprintf("/api/v1/recipes/%s/comments/%s/reply", id, commentID)
	w = doJSON(t, router, "POST", replyPath, commenterToken, map[string]interface{}{"text": "thanks"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, "POST", replyPath, ownerToken, map[string]interface{}{"text": "Glad you liked it!"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Glad you liked it!")

	// Owner-only soft delete hides the comment from the detail view.
	deletePath := fmt.Sprintf("/api/v1/recipes/%s/comments/%s", id, commentID)
	w = doJSON(t, router, "DELETE", deletePath, commenterToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, "DELETE", deletePath, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/recipes/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Great recipe!")
}

func TestNotificationReadFlowOverHTTP(t *testing.T) {
	router, _ := setupTestRouter(t)

	ownerToken := registerAndLogin(t, router, "Alice", "a@x.com")
	commenterToken := registerAndLogin(t, router, "Bob", "b@x.com")
	id := createRecipe(t, router, ownerToken, "Pancakes")

	for i := 0; i < 2; i++ {
		w := doJSON(t, router, "POST", fmt.Sprintf("/api/v1/recipes/%s/comments", id), commenterToken, map[string]interface{}{
			"text": fmt.Sprintf("comment %d", i),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, "GET", "/api/v1/notifications", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Notifications []struct {
			ID string `json:"id"`
		} `json:"notifications"`
		UnreadCount int64 `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Notifications, 2)
	assert.EqualValues(t, 2, listing.UnreadCount)

	// The commenter cannot touch the owner's notifications.
	w = doJSON(t, router, "PATCH", "/api/v1/notifications/"+listing.Notifications[0].ID+"/read", commenterToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, "PATCH", "/api/v1/notifications/"+listing.Notifications[0].ID+"/read", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/notifications/read-all", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/notifications", ownerToken, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.EqualValues(t, 0, listing.UnreadCount)

	w = doJSON(t, router, "DELETE", "/api/v1/notifications/"+listing.Notifications[0].ID, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMealPlanOverHTTP(t *testing.T) {
	router, _ := setupTestRouter(t)

	token := registerAndLogin(t, router, "Alice", "a@x.com")
	id := createRecipe(t, router, token, "Pancakes")

	w := doJSON(t, router, "POST", "/api/v1/auth/meal-plans", token, map[string]interface{}{
		"entries": []map[string]interface{}{
			{"recipe_id": id, "date": "2026-03-02", "category": "breakfast"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Entries []struct {
			ID string `json:"id"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created.Entries, 1)

	// Malformed dates are rejected before reaching the service.
	w = doJSON(t, router, "POST", "/api/v1/auth/meal-plans", token, map[string]interface{}{
		"entries": []map[string]interface{}{
			{"recipe_id": id, "date": "03/02/2026", "category": "breakfast"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/auth/meal-plans/2026-03-02", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "breakfast")

	w = doJSON(t, router, "DELETE", "/api/v1/auth/meal-plans/2026-03-02/"+created.Entries[0].ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/auth/meal-plans/2026-03-02", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), created.Entries[0].ID)
}

func TestPasswordResetOverHTTP(t *testing.T) {
	router, db := setupTestRouter(t)

	registerAndLogin(t, router, "Alice", "a@x.com")

	w := doJSON(t, router, "POST", "/api/v1/auth/forgot-password", "", map[string]interface{}{
		"email": "a@x.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The code travels by email in production; read it from the store here.
	var code string
	require.NoError(t, db.Raw("SELECT reset_code FROM users WHERE email = ?", "a@x.com").Scan(&code).Error)
	require.Len(t, code, 6)

	wrongCode := "000000"
	if code == wrongCode {
		wrongCode = "111111"
	}
	w = doJSON(t, router, "POST", "/api/v1/auth/reset-password", "", map[string]interface{}{
		"email":        "a@x.com",
		"code":         wrongCode,
		"new_password": "newpassword",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/auth/reset-password", "", map[string]interface{}{
		"email":        "a@x.com",
		"code":         code,
		"new_password": "newpassword",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "a@x.com",
		"password": "newpassword",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileOverHTTP(t *testing.T) {
	router, _ := setupTestRouter(t)

	token := registerAndLogin(t, router, "Alice", "a@x.com")

	w := doJSON(t, router, "GET", "/api/v1/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")
}
