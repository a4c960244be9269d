package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"folio/internal/config"
	"folio/internal/models"
	"folio/internal/service"
	"folio/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

const testPassword = "Str0ng!Passw0rd"

type testEnv struct {
	srv   *Server
	app   *fiber.App
	store *testutil.MemoryBlobStore
	mail  *testutil.StubMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Env:                  "test",
		JWTSecret:            testSecret,
		FeatureFlags:         "contact_email=on,live_feed=on",
		MediaURLPrefix:       "/media",
		ImageMaxUploadSizeMB: 2,
		AvatarMaxPx:          300,
		AdminEmail:           "owner@example.com",
		ContactEmail:         "hello@example.com",
		SiteName:             "Folio",
	}
	store := testutil.NewMemoryBlobStore()
	mail := &testutil.StubMailer{}

	srv, err := NewServer(cfg, Deps{DB: testutil.SQLiteDB(t), Media: store, Mailer: mail})
	require.NoError(t, err)
	return &testEnv{srv: srv, app: srv.App(), store: store, mail: mail}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) signup(t *testing.T, username string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/signup", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	result := decode[service.AuthResult](t, resp)
	require.NotEmpty(t, result.Token)
	return result.Token
}

func (e *testEnv) createPost(t *testing.T, token, title string) models.Post {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/posts", fiber.Map{
		"title":      title,
		"content":    "Body of " + title,
		"categories": []string{"go"},
		"tags":       []string{"fiber", "gorm"},
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[models.Post](t, resp)
}

func TestHealthChecks(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "degraded", body["status"], "redis is not configured")
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ada")

	resp := env.do(t, http.MethodPost, "/api/auth/signup", fiber.Map{
		"username": "ada",
		"email":    "ada@example.com",
		"password": testPassword,
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/signup", fiber.Map{
		"username": "x",
		"email":    "not-an-email",
		"password": "weak",
	}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[models.ErrorResponse](t, resp)
	assert.Equal(t, models.CodeValidation, errBody.Code)
	assert.Contains(t, errBody.Fields, "username")
	assert.Contains(t, errBody.Fields, "email")
	assert.Contains(t, errBody.Fields, "password")

	resp = env.do(t, http.MethodPost, "/api/auth/login", fiber.Map{"email": "ada@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/login", fiber.Map{"email": "ada@example.com", "password": testPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[service.AuthResult](t, resp)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "ada", login.User.Username)
}

func TestPostLifecycle(t *testing.T) {
	env := newTestEnv(t)
	author := env.signup(t, "author")
	other := env.signup(t, "reader")

	resp := env.do(t, http.MethodPost, "/api/posts", fiber.Map{"title": "x", "content": "y"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/posts", fiber.Map{"title": "", "content": ""}, author)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[models.ErrorResponse](t, resp)
	assert.Contains(t, errBody.Fields, "title")
	assert.Contains(t, errBody.Fields, "content")

	post := env.createPost(t, author, "First post")
	assert.Len(t, post.Categories, 1)
	assert.Len(t, post.Tags, 2)

	resp = env.do(t, http.MethodGet, "/api/posts", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[service.PostPage](t, resp)
	assert.EqualValues(t, 1, page.Total)

	resp = env.do(t, http.MethodGet, "/api/home", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.Post](t, resp), 1)

	resp = env.do(t, http.MethodPut, "/api/posts/"+itoa(post.ID), fiber.Map{"title": "Hijacked", "content": "nope"}, other)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/posts/"+itoa(post.ID), fiber.Map{"title": "Edited", "content": "new body"}, author)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.Post](t, resp)
	assert.Equal(t, "Edited", updated.Title)
	assert.Len(t, updated.Tags, 2, "omitted tags are kept")

	resp = env.do(t, http.MethodDelete, "/api/posts/"+itoa(post.ID), nil, other)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/posts/"+itoa(post.ID), nil, author)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/posts/"+itoa(post.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLikesAndComments(t *testing.T) {
	env := newTestEnv(t)
	author := env.signup(t, "author")
	reader := env.signup(t, "reader")
	post := env.createPost(t, author, "Likeable")
	path := "/api/posts/" + itoa(post.ID)

	resp := env.do(t, http.MethodPost, path+"/like", nil, reader)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	like := decode[service.LikeResult](t, resp)
	assert.True(t, like.Liked)
	assert.EqualValues(t, 1, like.LikesCount)

	resp = env.do(t, http.MethodGet, path, nil, reader)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[service.PostDetail](t, resp)
	assert.True(t, detail.Liked)
	assert.Equal(t, 1, detail.LikesCount)

	resp = env.do(t, http.MethodPost, path+"/like", nil, reader)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	like = decode[service.LikeResult](t, resp)
	assert.False(t, like.Liked)
	assert.EqualValues(t, 0, like.LikesCount)

	resp = env.do(t, http.MethodPost, "/api/posts/9999/like", nil, reader)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPost, path+"/comments", fiber.Map{"content": "   "}, reader)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[models.ErrorResponse](t, resp).Fields, "content")

	resp = env.do(t, http.MethodPost, path+"/comments", fiber.Map{"content": "Nice one"}, reader)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, path+"/comments", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := decode[[]models.Comment](t, resp)
	require.Len(t, comments, 1)
	assert.Equal(t, "Nice one", comments[0].Content)

	resp = env.do(t, http.MethodGet, "/api/posts/abc/comments", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPortfolioRoutes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, title := range []string{"Shop Front", "Shop Front", "Ledger API"} {
		typ := string(models.TypeWebApp)
		if title == "Ledger API" {
			typ = string(models.TypeAPI)
		}
		_, err := env.srv.portfolioService.Create(ctx, service.PortfolioInput{
			Title:            title,
			Type:             typ,
			ShortDescription: "A project",
			Technologies:     "Go, Postgres",
		})
		require.NoError(t, err)
	}

	resp := env.do(t, http.MethodGet, "/api/portfolio", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[service.PortfolioPage](t, resp)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Stats.Total)

	resp = env.do(t, http.MethodGet, "/api/portfolio?type=game", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[service.PortfolioPage](t, resp).Items)

	resp = env.do(t, http.MethodGet, "/api/portfolio/shop-front-1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[service.PortfolioDetail](t, resp)
	assert.Equal(t, "shop-front-1", detail.Portfolio.Slug)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, "shop-front", detail.Related[0].Slug)

	resp = env.do(t, http.MethodGet, "/api/portfolio/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/portfolio/stats", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[service.PortfolioStats](t, resp)
	assert.Equal(t, []string{"Go", "Postgres"}, stats.Technologies)
}

func TestPortfolioRoutes_EntryTitledStats(t *testing.T) {
	env := newTestEnv(t)
	entry, err := env.srv.portfolioService.Create(context.Background(), service.PortfolioInput{
		Title:            "Stats",
		ShortDescription: "A dashboard",
	})
	require.NoError(t, err)
	require.Equal(t, "stats-1", entry.Slug)

	resp := env.do(t, http.MethodGet, "/api/portfolio/"+entry.Slug, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[service.PortfolioDetail](t, resp)
	assert.Equal(t, entry.ID, detail.Portfolio.ID)
	assert.Equal(t, "Stats", detail.Portfolio.Title)

	resp = env.do(t, http.MethodGet, "/api/portfolio/stats", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[service.PortfolioStats](t, resp).Total)
}

func TestServicesRoute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.srv.offeringService.Create(ctx, &models.Offering{Title: "Second", Description: "b", SortOrder: 2}))
	require.NoError(t, env.srv.offeringService.Create(ctx, &models.Offering{Title: "First", Description: "a", SortOrder: 1}))

	resp := env.do(t, http.MethodGet, "/api/services", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]models.Offering](t, resp)
	require.Len(t, items, 2)
	assert.Equal(t, "First", items[0].Title)
}

func TestContactRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/contact", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	info := decode[models.ContactInfo](t, resp)
	assert.Equal(t, "hello@example.com", info.Email)

	resp = env.do(t, http.MethodPost, "/api/contact", fiber.Map{
		"name": "Ada", "email": "ada@example.com", "subject": "", "message": "Hi",
	}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[models.ErrorResponse](t, resp).Fields, "subject")
	assert.Zero(t, env.mail.Attempts())

	resp = env.do(t, http.MethodPost, "/api/contact", fiber.Map{
		"name": "Ada", "email": "ada@example.com", "subject": "Work", "message": "Hi",
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, env.srv.contactService.Wait(context.Background()))
	assert.Equal(t, 1, env.mail.Attempts())
}

func TestProfileRoutes(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "ada")

	resp := env.do(t, http.MethodGet, "/api/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/profile", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("bio", "Gopher"))
	require.NoError(t, mw.WriteField("website", "https://example.com"))
	fw, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = fw.Write(testutil.PNG(600, 400))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/profile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decode[models.Profile](t, resp)
	assert.Equal(t, "Gopher", profile.Bio)
	require.NotEmpty(t, profile.AvatarURL)

	var jpegKey string
	for _, key := range env.store.Keys() {
		if strings.HasSuffix(key, ".jpg") {
			jpegKey = key
		}
	}
	require.NotEmpty(t, jpegKey)
	stored, err := env.store.Get(context.Background(), jpegKey)
	require.NoError(t, err)
	w, h, err := testutil.ImageSize(stored)
	require.NoError(t, err)
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)

	resp = env.do(t, http.MethodPut, "/api/profile", fiber.Map{"website": "ftp://example.com"}, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[models.ErrorResponse](t, resp).Fields, "website")
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(&config.Config{JWTSecret: testSecret}, Deps{Media: testutil.NewMemoryBlobStore()})
	assert.Error(t, err)

	_, err = NewServer(&config.Config{JWTSecret: testSecret}, Deps{DB: testutil.SQLiteDB(t)})
	assert.Error(t, err)
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "post ID", humanizeParam("postId"))
	assert.Equal(t, "blog post ID", humanizeParam("blogPostId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
