package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tableside/internal/domain/model"
	pkgAuth "github.com/polkiloo/tableside/internal/pkg/auth"
	testhelpers "github.com/polkiloo/tableside/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveWithToken(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestIdentify(t *testing.T) {
	cases := []struct {
		name   string
		parser testhelpers.TokenParserStub
		token  string
		want   model.Role
	}{
		{"anonymous", testhelpers.TokenParserStub{}, "", model.RoleCustomer},
		{"invalid token", testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken}, "bad", model.RoleCustomer},
		{"unknown role", testhelpers.TokenParserStub{Identity: pkgAuth.Identity{Subject: "x", Role: "chef"}}, "t", model.RoleCustomer},
		{"admin", testhelpers.TokenParserStub{Identity: pkgAuth.Identity{Subject: "admin", Role: model.RoleAdmin}}, "t", model.RoleAdmin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got model.Role
			router := gin.New()
			router.Use(Identify(tc.parser))
			router.GET("/", func(c *gin.Context) {
				got = RoleOf(c)
				c.Status(http.StatusOK)
			})

			if resp := serveWithToken(router, tc.token); resp.Code != http.StatusOK {
				t.Fatalf("identify must never reject, got %d", resp.Code)
			}
			if got != tc.want {
				t.Fatalf("expected role %s, got %s", tc.want, got)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	newRouter := func(identity pkgAuth.Identity) *gin.Engine {
		router := gin.New()
		router.Use(Identify(testhelpers.TokenParserStub{Identity: identity}))
		router.Use(RequireRole(model.RoleAdmin))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	if resp := serveWithToken(newRouter(pkgAuth.Identity{}), ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
	if resp := serveWithToken(newRouter(pkgAuth.Identity{Subject: "guest", Role: model.RoleCustomer}), "t"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer token, got %d", resp.Code)
	}
	if resp := serveWithToken(newRouter(pkgAuth.Identity{Subject: "admin", Role: model.RoleAdmin}), "t"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.Code)
	}
}

func TestRoleOfWithoutIdentify(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if RoleOf(c) != model.RoleCustomer {
		t.Fatal("expected customer by default")
	}
	c.Set(RoleContextKey, "admin")
	if RoleOf(c) != model.RoleCustomer {
		t.Fatal("untyped role value must be ignored")
	}
}

func TestSetAuthCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	SetAuthCookie(c, "token")
	if got := recorder.Header().Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected auth header, got %q", got)
	}
	result := recorder.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cookies := result.Cookies()
	if len(cookies) == 0 || cookies[0].Value != "token" || cookies[0].Name != authCookieName {
		t.Fatalf("expected cookie with token, got %+v", cookies)
	}
}

func TestClearAuthCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	ClearAuthCookie(c)
	result := recorder.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cookies := result.Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cookies)
	}
}

func TestExtractToken(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if token := extractToken(c); token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
	c.Request.Header.Set("Authorization", "Bearer abc")
	if token := extractToken(c); token != "abc" {
		t.Fatalf("expected token from header, got %q", token)
	}
	c.Request.Header.Del("Authorization")
	c.Request.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie"})
	if token := extractToken(c); token != "cookie" {
		t.Fatalf("expected token from cookie, got %q", token)
	}
}

func TestDecompressRequest(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte("payload"))
	_ = gz.Close()

	router := gin.New()
	router.Use(DecompressRequest())
	var body string
	router.POST("/", func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		body = string(data)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(bytes.NewReader(buf.Bytes())))
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if body != "payload" {
		t.Fatalf("expected decompressed payload, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", io.NopCloser(bytes.NewReader([]byte("plain"))))
	resp = httptest.NewRecorder()
	body = ""
	router.ServeHTTP(resp, req)
	if body != "plain" {
		t.Fatalf("expected plain body, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not gzip")))
	req.Header.Set("Content-Encoding", "gzip")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for corrupt gzip, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("x")))
	req.Header.Set("Content-Encoding", "br")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 for unsupported encoding, got %d", resp.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var levels []slog.Level
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey {
			levels = append(levels, a.Value.Any().(slog.Level))
		}
		return a
	}})
	logger := slog.New(handler)

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	for _, path := range []string{"/ok", "/bad", "/boom"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	want := []slog.Level{slog.LevelInfo, slog.LevelWarn, slog.LevelError}
	if len(levels) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(levels))
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("record %d: expected %s, got %s", i, want[i], levels[i])
		}
	}
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected origin to be allowed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected foreign origin to be rejected, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(CORS([]string{"*"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
}
