// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"wikibase/internal/auth"
	"wikibase/internal/catalog"
	"wikibase/internal/database"
	"wikibase/internal/middleware"
	"wikibase/internal/models"
	"wikibase/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "wikibase")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "wikibase")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testAPI wires the full handler surface over a real database, without
// Valkey or S3. It returns a mux plus a bearer token for an editor.
type testAPI struct {
	mux   *chi.Mux
	token string
	db    *sql.DB
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testDB(t)

	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	informationStore := store.NewInformationStore(db)
	fileStore := store.NewFileStore(db)
	service := catalog.NewService(categoryStore, informationStore, fileStore)

	tokens := auth.NewTokenManager("test-secret", time.Hour)

	email := "test-editor-" + uuid.NewString()[:8] + "@example.com"
	user, err := userStore.Create(context.Background(), email, "test-password", "Test Editor", models.RoleEditor)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })

	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	authH := NewAuth(tokens, userStore)
	categoriesH := NewCategories(categoryStore, service.Guard())
	informationH := NewInformation(service, nil)
	filesH := NewFiles(fileStore, nil)

	mux := chi.NewRouter()
	mux.Use(middleware.Authenticate(tokens))
	mux.Post("/api/auth/login", authH.Login)
	mux.Get("/api/categories", categoriesH.List)
	mux.Get("/api/categories/{identifier}", categoriesH.Get)
	mux.Get("/api/categories/{identifier}/information", informationH.ListByCategory)
	mux.Get("/api/sub-categories/{identifier}/information", informationH.ListBySubCategory)
	mux.Get("/api/information/{identifier}", informationH.Get)
	mux.Get("/api/information/slug/{category}/{subcategory}/{title}", informationH.GetBySlug)
	mux.Get("/api/files/{id}", filesH.Get)
	mux.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/api/categories", categoriesH.Create)
		r.Put("/api/categories/{identifier}", categoriesH.Rename)
		r.Delete("/api/categories/{identifier}", categoriesH.Delete)
		r.Post("/api/information", informationH.Create)
		r.Put("/api/information/{identifier}", informationH.Update)
		r.Delete("/api/information/{identifier}", informationH.Delete)
	})

	return &testAPI{mux: mux, token: token, db: db}
}

// do runs one request against the mux, optionally authenticated, and
// decodes the JSON response into out when it is non-nil.
func (a *testAPI) do(t *testing.T, method, path string, body any, authed bool, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	rr := httptest.NewRecorder()
	a.mux.ServeHTTP(rr, req)

	if out != nil && rr.Code < 300 {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rr.Body.String(), err)
		}
	}
	return rr
}
