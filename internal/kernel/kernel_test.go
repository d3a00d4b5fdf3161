package kernel_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/internal/kernel"
	"github.com/shashiranjanraj/shopfront/internal/server"
	"github.com/shashiranjanraj/shopfront/internal/testkit"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
	"github.com/shashiranjanraj/shopfront/pkg/cache"
	"github.com/shashiranjanraj/shopfront/pkg/event"
	"github.com/shashiranjanraj/shopfront/pkg/middleware"
	"github.com/shashiranjanraj/shopfront/pkg/storage"
	"github.com/shashiranjanraj/shopfront/pkg/workerpool"
	"github.com/shashiranjanraj/shopfront/pkg/ws"
)

type fixture struct {
	handler  http.Handler
	db       *gorm.DB
	owner    models.UserProfile
	shopper  models.UserProfile
	category models.Category
	product  models.Product
	unpriced models.Product
	tokens   map[string]string
	vars     map[string]string
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := testkit.NewDB(t)

	disk, err := storage.NewLocal(t.TempDir(), "http://localhost/storage")
	require.NoError(t, err)
	disks := storage.NewManager("local")
	disks.Register(disk)

	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub()
	go hub.Run(ctx)

	bus := event.New()
	t.Cleanup(bus.Wait)

	set, err := server.Build(server.Dependencies{DB: db, Cache: cache.NewMemory(), Disks: disks, Pool: pool, Bus: bus, Hub: hub})
	require.NoError(t, err)

	k := kernel.NewHTTPKernel(set, kernel.Options{CORS: middleware.DefaultCORSOptions(), StorageRoot: disk.Root()})

	owner := testkit.User(t, db, auth.RoleUser)
	shopper := testkit.User(t, db, auth.RoleUser)
	stranger := testkit.User(t, db, auth.RoleUser)
	admin := testkit.User(t, db, auth.RoleAdmin)
	cat := testkit.Category(t, db)
	product := testkit.Product(t, db, owner, cat, "12.50")
	unpriced := testkit.Product(t, db, owner, cat, "")

	return fixture{
		handler:  k.Handler(),
		db:       db,
		owner:    owner,
		shopper:  shopper,
		category: cat,
		product:  product,
		unpriced: unpriced,
		tokens: map[string]string{
			"owner":    testkit.Token(t, owner),
			"shopper":  testkit.Token(t, shopper),
			"stranger": testkit.Token(t, stranger),
			"admin":    testkit.Token(t, admin),
		},
		vars: map[string]string{
			"category": fmt.Sprint(cat.ID),
			"product":  fmt.Sprint(product.ID),
			"unpriced": fmt.Sprint(unpriced.ID),
		},
	}
}

func TestCatalogScenarios(t *testing.T) {
	f := setup(t)
	testkit.RunFile(t, f.handler, "testdata/catalog.json", f.tokens, f.vars)
}

func TestFeedbackScenarios(t *testing.T) {
	f := setup(t)
	testkit.RunFile(t, f.handler, "testdata/feedback.json", f.tokens, f.vars)
}

func TestAuthFlow(t *testing.T) {
	f := setup(t)

	rec := testkit.Do(t, f.handler, http.MethodPost, "/api/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "correct-horse",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := testkit.Envelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["user"].(map[string]interface{})["username"])
	assert.NotEmpty(t, data["access"])

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/register", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "correct-horse",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", testkit.Envelope(t, rec)["message"])

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "correct-horse"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tokens := testkit.Envelope(t, rec)["data"].(map[string]interface{})
	access, refresh := tokens["access"].(string), tokens["refresh"].(string)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	// the cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	f.handler.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	assert.Equal(t, "alice@example.com", testkit.Envelope(t, me)["data"].(map[string]interface{})["email"])

	rec = testkit.Do(t, f.handler, http.MethodGet, "/api/users/me", nil, access)
	assert.Equal(t, http.StatusOK, rec.Code)

	// a refresh token is not an access token
	rec = testkit.Do(t, f.handler, http.MethodGet, "/api/users/me", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/token/refresh", map[string]string{"refresh": refresh}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, testkit.Envelope(t, rec)["data"].(map[string]interface{})["access"])

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/logout", map[string]string{"refresh": "not-a-token"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/logout", map[string]string{"refresh": refresh}, "")
	assert.Equal(t, http.StatusResetContent, rec.Code)

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/logout", map[string]string{"refresh": refresh}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "second logout with the same token")

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/token/refresh", map[string]string{"refresh": refresh}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	f := setup(t)

	rec := testkit.Do(t, f.handler, http.MethodPost, "/api/register", map[string]string{
		"username": "bob",
		"email":    "not-an-email",
		"password": "short",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := testkit.Envelope(t, rec)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/register", "{not json", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	f := setup(t)

	body := map[string]string{"username": "nobody", "password": "whatever"}
	for i := 0; i < 10; i++ {
		rec := testkit.Do(t, f.handler, http.MethodPost, "/api/login", body, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
	}
	rec := testkit.Do(t, f.handler, http.MethodPost, "/api/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestCartFlow(t *testing.T) {
	f := setup(t)
	tok := f.tokens["shopper"]

	rec := testkit.Do(t, f.handler, http.MethodGet, "/api/cart", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testkit.Do(t, f.handler, http.MethodGet, "/api/cart", nil, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := testkit.Envelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "0.00", cart["total_price"])

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/cart-items", map[string]interface{}{"product_id": f.product.ID, "quantity": 2}, tok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := testkit.Envelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "25.00", item["get_total_price"])
	itemID := uint(item["id"].(float64))

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/cart-items", map[string]interface{}{"product_id": f.product.ID, "quantity": 1}, tok)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(3), testkit.Envelope(t, rec)["data"].(map[string]interface{})["quantity"])

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/cart-items", map[string]interface{}{"product_id": 999999}, tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testkit.Do(t, f.handler, http.MethodPost, "/api/cart-items", map[string]interface{}{"product_id": f.product.ID, "quantity": 999}, tok)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = testkit.Do(t, f.handler, http.MethodGet, "/api/cart-items", nil, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, testkit.Envelope(t, rec)["data"], 1)

	rec = testkit.Do(t, f.handler, http.MethodGet, "/api/cart", nil, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = testkit.Envelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "37.50", cart["total_price"])
	assert.Len(t, cart["items"], 1)

	// another shopper cannot see the line
	rec = testkit.Do(t, f.handler, http.MethodGet, fmt.Sprintf("/api/cart-items/%d", itemID), nil, f.tokens["stranger"])
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testkit.Do(t, f.handler, http.MethodPatch, fmt.Sprintf("/api/cart-items/%d", itemID), map[string]int{"quantity": 1}, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "12.50", testkit.Envelope(t, rec)["data"].(map[string]interface{})["get_total_price"])

	rec = testkit.Do(t, f.handler, http.MethodPatch, fmt.Sprintf("/api/cart-items/%d", itemID), map[string]int{"quantity": 0}, tok)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = testkit.Do(t, f.handler, http.MethodGet, fmt.Sprintf("/api/cart-items/%d", itemID), nil, tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartWithUnpricedItem(t *testing.T) {
	f := setup(t)
	tok := f.tokens["shopper"]

	rec := testkit.Do(t, f.handler, http.MethodPost, "/api/cart-items", map[string]interface{}{"product_id": f.unpriced.ID}, tok)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = testkit.Do(t, f.handler, http.MethodGet, "/api/cart", nil, tok)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "cart contains an item that cannot be priced", testkit.Envelope(t, rec)["message"])
}

func TestPhotoUpload(t *testing.T) {
	f := setup(t)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

	upload := func(token string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("images", "front.png")
		require.NoError(t, err)
		_, err = part.Write(png)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/products/%d/photos", f.product.ID), &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, upload(f.tokens["stranger"]).Code)

	rec := upload(f.tokens["owner"])
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	photos := testkit.Envelope(t, rec)["data"].([]interface{})
	require.Len(t, photos, 1)
	url := photos[0].(map[string]interface{})["image"].(string)
	require.True(t, strings.HasPrefix(url, "http://localhost/storage/products/"), url)

	// the stored object is served back under /storage
	rec = testkit.Do(t, f.handler, http.MethodGet, strings.TrimPrefix(url, "http://localhost"), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, png, rec.Body.Bytes())

	rec = testkit.Do(t, f.handler, http.MethodGet, fmt.Sprintf("/api/products/%d", f.product.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := testkit.Envelope(t, rec)["data"].(map[string]interface{})
	assert.Len(t, detail["photos"], 1)

	rec = testkit.Do(t, f.handler, http.MethodGet, "/storage/products", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "directory listings are hidden")
}

func TestHealthAndGraphQL(t *testing.T) {
	f := setup(t)

	rec := testkit.Do(t, f.handler, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	checks := testkit.Envelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "ok", checks["database"])
	assert.Equal(t, "ok", checks["cache"])

	rec = testkit.Do(t, f.handler, http.MethodPost, "/graphql", map[string]string{
		"query": fmt.Sprintf(`{ product(id: %d) { productName price } }`, f.product.ID),
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"price":"12.50"`)

	rec = testkit.Do(t, f.handler, http.MethodPost, "/graphql", map[string]string{"query": `{ cart { totalPrice } }`}, f.tokens["shopper"])
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalPrice":"0.00"`)

	rec = testkit.Do(t, f.handler, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
