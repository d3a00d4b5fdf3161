package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/shopfront/pkg/auth"
	appctx "github.com/shashiranjanraj/shopfront/pkg/ctx"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) appctx.Envelope {
	t.Helper()
	var env appctx.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Success(map[string]any{"id": 1})
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if env := decode(t, rec); env.Status != http.StatusOK || env.Data == nil {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/products/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamUint("id")
		if !ok {
			c.NotFound()
			return
		}
		c.JSON(http.StatusOK, map[string]uint{"id": id})
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/12", nil))
	if !strings.Contains(rec.Body.String(), `"id":12`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}

	for _, bad := range []string{"0", "-3", "abc"} {
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+bad, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("id %q: expected 404, got %d", bad, rec.Code)
		}
	}
}

func TestQueryInt(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=x", nil)
	appctx.Wrap(func(c *appctx.Context) {
		if got := c.QueryInt("page", 1); got != 3 {
			t.Errorf("page: expected 3, got %d", got)
		}
		if got := c.QueryInt("limit", 20); got != 20 {
			t.Errorf("limit: expected default 20, got %d", got)
		}
		c.NoContent()
	})(rec, req)
}

func TestUserIDFromClaims(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: 42, Role: auth.RoleAdmin}))

	appctx.Wrap(func(c *appctx.Context) {
		if c.UserID() != 42 {
			t.Errorf("expected 42, got %d", c.UserID())
		}
		if !c.IsAdmin() {
			t.Error("expected admin")
		}
		c.NoContent()
	})(rec, req)

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		if c.UserID() != 0 {
			t.Errorf("anonymous request should have no user, got %d", c.UserID())
		}
	})(httptest.NewRecorder(), anon)
}

func TestBindJSONValid(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"product_id":7,"quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			ProductID uint `json:"product_id" validate:"required"`
			Quantity  int  `json:"quantity"   validate:"required,gte=1"`
		}
		if !c.BindJSON(&input) {
			t.Error("expected BindJSON to succeed")
			return
		}
		if input.Quantity != 2 {
			t.Errorf("expected 2, got %d", input.Quantity)
		}
		c.Success(nil)
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBindJSONInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":0}`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Quantity int `json:"quantity" validate:"gte=1"`
		}
		if c.BindJSON(&input) {
			t.Error("expected BindJSON to fail")
		}
	})(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	errs, _ := env.Errors.(map[string]any)
	if _, ok := errs["quantity"]; !ok {
		t.Errorf("expected quantity error, got %v", env.Errors)
	}
}

func TestBindJSONMalformed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Quantity int `json:"quantity"`
		}
		c.BindJSON(&input)
	})(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		if ip := c.ClientIP(); ip != "1.2.3.4" {
			t.Errorf("expected 1.2.3.4, got %s", ip)
		}
	})(httptest.NewRecorder(), req)
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	appctx.Wrap(func(c *appctx.Context) {
		c.NotFound("product not found")
	})(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if env := decode(t, rec); env.Message != "product not found" {
		t.Errorf("unexpected message %q", env.Message)
	}
}
