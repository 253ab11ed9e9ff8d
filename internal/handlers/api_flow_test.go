package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"wikibase/internal/models"
	"wikibase/internal/store"
)

func TestAPICategoryAndInformationFlow(t *testing.T) {
	api := newTestAPI(t)

	// Create a category with one subcategory.
	var cat models.Category
	rr := api.do(t, http.MethodPost, "/api/categories", map[string]any{
		"name":           "Test SMS",
		"sub_categories": []string{"Campanhas"},
	}, true, &cat)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create category: got %d: %s", rr.Code, rr.Body.String())
	}
	t.Cleanup(func() {
		api.db.Exec("DELETE FROM information WHERE category_identifier = $1", cat.Identifier)
		api.db.Exec("DELETE FROM sub_categories WHERE category_identifier = $1", cat.Identifier)
		api.db.Exec("DELETE FROM categories WHERE identifier = $1", cat.Identifier)
	})
	if len(cat.SubCategories) != 1 {
		t.Fatalf("expected 1 subcategory, got %d", len(cat.SubCategories))
	}
	sub := cat.SubCategories[0]

	// Create an information record under it.
	var rec models.Information
	rr = api.do(t, http.MethodPost, "/api/information", map[string]any{
		"category_identifier":     cat.Identifier,
		"sub_category_identifier": sub.Identifier,
		"question":                "Como criar uma campanha?",
		"content":                 "Passo a passo.",
	}, true, &rec)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create information: got %d: %s", rr.Code, rr.Body.String())
	}
	if rec.Slug != "test-sms/campanhas/como-criar-uma-campanha" {
		t.Errorf("slug: got %q", rec.Slug)
	}
	if rec.AuthorName != "Test Editor" {
		t.Errorf("author: got %q", rec.AuthorName)
	}

	// Public slug lookup.
	var fetched models.Information
	rr = api.do(t, http.MethodGet, "/api/information/slug/"+rec.Slug, nil, false, &fetched)
	if rr.Code != http.StatusOK {
		t.Fatalf("get by slug: got %d: %s", rr.Code, rr.Body.String())
	}
	if fetched.Identifier != rec.Identifier {
		t.Errorf("identifier: got %q, want %q", fetched.Identifier, rec.Identifier)
	}

	// Scoped listing.
	var listed []models.Information
	rr = api.do(t, http.MethodGet, "/api/sub-categories/"+sub.Identifier+"/information", nil, false, &listed)
	if rr.Code != http.StatusOK || len(listed) != 1 {
		t.Fatalf("list by subcategory: got %d, %d records", rr.Code, len(listed))
	}

	// Re-title: the last slug segment changes, the prefix stays.
	var updated models.Information
	rr = api.do(t, http.MethodPut, "/api/information/"+rec.Identifier, map[string]any{
		"question": "Como pausar uma campanha?",
	}, true, &updated)
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.HasPrefix(updated.Slug, "test-sms/campanhas/") {
		t.Errorf("slug prefix lost: %q", updated.Slug)
	}
	if !strings.HasSuffix(updated.Slug, "como-pausar-uma-campanha") {
		t.Errorf("slug tail: %q", updated.Slug)
	}

	// Delete. The old slug stops resolving.
	rr = api.do(t, http.MethodDelete, "/api/information/"+rec.Identifier, nil, true, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: got %d: %s", rr.Code, rr.Body.String())
	}
	rr = api.do(t, http.MethodGet, "/api/information/"+rec.Identifier, nil, false, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rr.Code)
	}
	rr = api.do(t, http.MethodDelete, "/api/information/"+rec.Identifier, nil, true, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", rr.Code)
	}
}

func TestAPICategoryCascade(t *testing.T) {
	api := newTestAPI(t)

	var cat models.Category
	rr := api.do(t, http.MethodPost, "/api/categories", map[string]any{
		"name":           "Test Cascade",
		"sub_categories": []string{"Filhos"},
	}, true, &cat)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create category: got %d", rr.Code)
	}
	t.Cleanup(func() {
		api.db.Exec("DELETE FROM information WHERE category_identifier = $1", cat.Identifier)
		api.db.Exec("DELETE FROM sub_categories WHERE category_identifier = $1", cat.Identifier)
		api.db.Exec("DELETE FROM categories WHERE identifier = $1", cat.Identifier)
	})
	sub := cat.SubCategories[0]

	var rec models.Information
	rr = api.do(t, http.MethodPost, "/api/information", map[string]any{
		"category_identifier":     cat.Identifier,
		"sub_category_identifier": sub.Identifier,
		"question":                "Sobrevive?",
		"content":                 "Veremos.",
	}, true, &rec)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create information: got %d", rr.Code)
	}

	rr = api.do(t, http.MethodDelete, "/api/categories/"+cat.Identifier, nil, true, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete category: got %d: %s", rr.Code, rr.Body.String())
	}

	// Category and scoped listing are gone.
	rr = api.do(t, http.MethodGet, "/api/categories/"+cat.Identifier, nil, false, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get category after cascade: got %d, want 404", rr.Code)
	}
	var listed []models.Information
	rr = api.do(t, http.MethodGet, "/api/sub-categories/"+sub.Identifier+"/information", nil, false, &listed)
	if rr.Code != http.StatusOK || len(listed) != 0 {
		t.Errorf("scoped listing after cascade: got %d, %d records", rr.Code, len(listed))
	}

	// The orphaned record stays readable by identifier.
	rr = api.do(t, http.MethodGet, "/api/information/"+rec.Identifier, nil, false, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("orphan fetch: got %d, want 200", rr.Code)
	}

	// New records cannot target the dead taxonomy.
	rr = api.do(t, http.MethodPost, "/api/information", map[string]any{
		"category_identifier":     cat.Identifier,
		"sub_category_identifier": sub.Identifier,
		"question":                "Ainda da?",
		"content":                 "Nao.",
	}, true, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("create under dead taxonomy: got %d, want 404", rr.Code)
	}
}

func TestAPIMembershipMismatch(t *testing.T) {
	api := newTestAPI(t)

	var catA, catB models.Category
	rr := api.do(t, http.MethodPost, "/api/categories", map[string]any{
		"name": "Test Pai A", "sub_categories": []string{"Sub A"},
	}, true, &catA)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create category A: got %d", rr.Code)
	}
	rr = api.do(t, http.MethodPost, "/api/categories", map[string]any{
		"name": "Test Pai B",
	}, true, &catB)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create category B: got %d", rr.Code)
	}
	t.Cleanup(func() {
		for _, id := range []string{catA.Identifier, catB.Identifier} {
			api.db.Exec("DELETE FROM sub_categories WHERE category_identifier = $1", id)
			api.db.Exec("DELETE FROM categories WHERE identifier = $1", id)
		}
	})

	// Subcategory of A declared under B is rejected as not found.
	rr = api.do(t, http.MethodPost, "/api/information", map[string]any{
		"category_identifier":     catB.Identifier,
		"sub_category_identifier": catA.SubCategories[0].Identifier,
		"question":                "Pertence?",
		"content":                 "Nao pertence.",
	}, true, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("mismatched pair: got %d, want 404", rr.Code)
	}
}

func TestAPIDuplicateTitlesGetSuffixedSlugs(t *testing.T) {
	api := newTestAPI(t)

	var cat models.Category
	rr := api.do(t, http.MethodPost, "/api/categories", map[string]any{
		"name": "Test Dup", "sub_categories": []string{"Sub"},
	}, true, &cat)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create category: got %d", rr.Code)
	}
	t.Cleanup(func() {
		api.db.Exec("DELETE FROM information WHERE category_identifier = $1", cat.Identifier)
		api.db.Exec("DELETE FROM sub_categories WHERE category_identifier = $1", cat.Identifier)
		api.db.Exec("DELETE FROM categories WHERE identifier = $1", cat.Identifier)
	})
	sub := cat.SubCategories[0]

	body := map[string]any{
		"category_identifier":     cat.Identifier,
		"sub_category_identifier": sub.Identifier,
		"question":                "Mesma pergunta",
		"content":                 "Primeira.",
	}
	var first, second models.Information
	if rr := api.do(t, http.MethodPost, "/api/information", body, true, &first); rr.Code != http.StatusCreated {
		t.Fatalf("first create: got %d", rr.Code)
	}
	if rr := api.do(t, http.MethodPost, "/api/information", body, true, &second); rr.Code != http.StatusCreated {
		t.Fatalf("second create: got %d", rr.Code)
	}

	if first.Slug != "test-dup/sub/mesma-pergunta" {
		t.Errorf("first slug: got %q", first.Slug)
	}
	if second.Slug != "test-dup/sub/mesma-pergunta-1" {
		t.Errorf("second slug: got %q", second.Slug)
	}
}

func TestAPIWritesRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/categories"},
		{http.MethodPost, "/api/information"},
		{http.MethodDelete, "/api/information/some-id"},
	}
	for _, p := range paths {
		rr := api.do(t, p.method, p.path, map[string]any{}, false, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want 401", p.method, p.path, rr.Code)
		}
	}
}

func TestAPIValidationErrors(t *testing.T) {
	api := newTestAPI(t)

	// Empty question.
	rr := api.do(t, http.MethodPost, "/api/information", map[string]any{
		"category_identifier":     "whatever",
		"sub_category_identifier": "whatever",
		"question":                "  ",
		"content":                 "body",
	}, true, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("blank question: got %d, want 400", rr.Code)
	}

	// Unknown field.
	rr = api.do(t, http.MethodPost, "/api/categories", map[string]any{
		"name": "ok", "bogus": true,
	}, true, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown field: got %d, want 400", rr.Code)
	}
}

func TestAPILogin(t *testing.T) {
	api := newTestAPI(t)

	email := "test-login-" + uuid.NewString()[:8] + "@example.com"
	userStore := store.NewUserStore(api.db)
	if _, err := userStore.Create(context.Background(), email, "red-horse-battery", "Login User", models.RoleEditor); err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { api.db.Exec("DELETE FROM users WHERE email = $1", email) })

	t.Run("valid credentials", func(t *testing.T) {
		var resp map[string]string
		rr := api.do(t, http.MethodPost, "/api/auth/login", map[string]any{
			"email": email, "password": "red-horse-battery",
		}, false, &resp)
		if rr.Code != http.StatusOK {
			t.Fatalf("login: got %d: %s", rr.Code, rr.Body.String())
		}
		if resp["token"] == "" {
			t.Error("expected a token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/auth/login", map[string]any{
			"email": email, "password": "wrong",
		}, false, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("login: got %d, want 401", rr.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/auth/login", map[string]any{
			"email": "ghost@example.com", "password": "whatever",
		}, false, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("login: got %d, want 401", rr.Code)
		}
	})
}
