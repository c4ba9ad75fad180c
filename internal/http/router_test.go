package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"curio/internal/auth"
	"curio/internal/config"
	"curio/internal/db"
	httpx "curio/internal/http"
	"curio/internal/tag"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	gdb, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrateAndIndexes(gdb))

	cfg := config.Config{JWTSecret: testSecret}
	r := httpx.NewRouter(cfg, gdb, auth.NewJWT(testSecret), zap.NewNop().Sugar())
	return r, gdb
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
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
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func registerAndLogin(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]any{
		"email": email, "password": "Passw0rd!",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	token := registerAndLogin(t, router, "alice@example.com")

	// Duplicate registration conflicts.
	rr := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "alice@example.com", "password": "Passw0rd!",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Weak password never reaches the store.
	rr = doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "weak@example.com", "password": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Login with wrong password fails closed.
	rr = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "WrongPassw0rd!",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "Passw0rd!",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	// The public projection never carries the password hash.
	rr = doJSON(t, router, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "alice@example.com")
	assert.NotContains(t, rr.Body.String(), "hashed_password")

	// No token: unauthorized.
	rr = doJSON(t, router, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdateMeAndPassword(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "alice@example.com")

	rr := doJSON(t, router, http.MethodPatch, "/me", token, map[string]any{"full_name": "Alice A."})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Alice A.")

	rr = doJSON(t, router, http.MethodPut, "/me/password", token, map[string]any{
		"current_password": "bad", "new_password": "NewPassw0rd!",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPut, "/me/password", token, map[string]any{
		"current_password": "Passw0rd!", "new_password": "NewPassw0rd!",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "NewPassw0rd!",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestItemsEndpoints_Authorization(t *testing.T) {
	router, gdb := newTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice@example.com")
	bobToken := registerAndLogin(t, router, "bob@example.com")

	users := &auth.Service{DB: gdb}
	admin, err := users.CreateUser(context.Background(), auth.CreateUserInput{
		Email: "admin@example.com", Password: "Passw0rd!", IsActive: true, IsSuperuser: true,
	})
	require.NoError(t, err)
	adminToken, err := auth.NewJWT(testSecret).Sign(admin.ID)
	require.NoError(t, err)

	rr := doJSON(t, router, http.MethodPost, "/items", aliceToken, map[string]any{"title": "Brass compass"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	// A stranger gets 403, a missing id 404; the two are never conflated.
	rr = doJSON(t, router, http.MethodGet, "/items/"+created.ID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = doJSON(t, router, http.MethodGet, "/items/does-not-exist", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodPut, "/items/"+created.ID, bobToken, map[string]any{"title": "hijack"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, http.MethodPut, "/items/"+created.ID, adminToken, map[string]any{"title": "admin edit"})
	assert.Equal(t, http.StatusOK, rr.Code)

	// Bob's listing excludes Alice's item, with a matching count.
	rr = doJSON(t, router, http.MethodGet, "/items", bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var listing struct {
		Data  []json.RawMessage `json:"data"`
		Count int64             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listing))
	assert.Empty(t, listing.Data)
	assert.Zero(t, listing.Count)

	rr = doJSON(t, router, http.MethodGet, "/items", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listing))
	assert.EqualValues(t, 1, listing.Count)

	rr = doJSON(t, router, http.MethodDelete, "/items/"+created.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = doJSON(t, router, http.MethodGet, "/items/"+created.ID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestItemUpdate_TagReplaceOverHTTP(t *testing.T) {
	router, gdb := newTestRouter(t)
	token := registerAndLogin(t, router, "alice@example.com")

	tags := &tag.Service{DB: gdb}
	t1, err := tags.Create(context.Background(), tag.CreateTagInput{Name: "t1"})
	require.NoError(t, err)
	t2, err := tags.Create(context.Background(), tag.CreateTagInput{Name: "t2"})
	require.NoError(t, err)

	rr := doJSON(t, router, http.MethodPost, "/items", token, map[string]any{
		"title": "tagged", "tag_ids": []string{t1.ID},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		ID     string   `json:"id"`
		TagIDs []string `json:"tag_ids"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, []string{t1.ID}, created.TagIDs)

	// Patch without tag_ids keeps the set.
	rr = doJSON(t, router, http.MethodPut, "/items/"+created.ID, token, map[string]any{"title": "renamed"})
	require.Equal(t, http.StatusOK, rr.Code)
	var updated struct {
		TagIDs []string `json:"tag_ids"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, []string{t1.ID}, updated.TagIDs)

	// Replace with a new set.
	rr = doJSON(t, router, http.MethodPut, "/items/"+created.ID, token, map[string]any{
		"tag_ids": []string{t2.ID},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, []string{t2.ID}, updated.TagIDs)

	// Empty list clears.
	rr = doJSON(t, router, http.MethodPut, "/items/"+created.ID, token, map[string]any{
		"tag_ids": []string{},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Empty(t, updated.TagIDs)
}

func TestTagsEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "alice@example.com")

	rr := doJSON(t, router, http.MethodPost, "/tags", token, map[string]any{"name": "vintage", "color": "#FF8800"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = doJSON(t, router, http.MethodPost, "/tags", token, map[string]any{"name": "vintage"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/tags?skip=0&limit=10", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var listing struct {
		Data  []json.RawMessage `json:"data"`
		Count int64             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listing))
	assert.EqualValues(t, 1, listing.Count)

	// Tag reads still require an authenticated caller.
	rr = doJSON(t, router, http.MethodGet, "/tags", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/tags/"+created.ID+"/items", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listing))
	assert.Zero(t, listing.Count)

	rr = doJSON(t, router, http.MethodDelete, "/tags/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = doJSON(t, router, http.MethodGet, "/tags/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUsersEndpoints_SuperuserGate(t *testing.T) {
	router, gdb := newTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice@example.com")

	users := &auth.Service{DB: gdb}
	admin, err := users.CreateUser(context.Background(), auth.CreateUserInput{
		Email: "admin@example.com", Password: "Passw0rd!", IsActive: true, IsSuperuser: true,
	})
	require.NoError(t, err)
	adminToken, err := auth.NewJWT(testSecret).Sign(admin.ID)
	require.NoError(t, err)

	rr := doJSON(t, router, http.MethodGet, "/users", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var listing struct {
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listing))
	assert.EqualValues(t, 2, listing.Count)

	rr = doJSON(t, router, http.MethodPost, "/users", adminToken, map[string]any{
		"email": "carol@example.com", "password": "Passw0rd!", "is_superuser": false,
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	// Delete cascades; alice's token stops resolving.
	var alice auth.User
	require.NoError(t, gdb.Where("email = ?", "alice@example.com").First(&alice).Error)
	rr = doJSON(t, router, http.MethodDelete, "/users/"+alice.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/me", aliceToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
