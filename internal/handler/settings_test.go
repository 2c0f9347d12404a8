package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/handler"
)

// --- Mock store ---

type mockSettingsStore struct {
	settings map[string]database.SiteSetting
}

func newMockSettingsStore() *mockSettingsStore {
	return &mockSettingsStore{settings: make(map[string]database.SiteSetting)}
}

func (m *mockSettingsStore) GetSetting(_ context.Context, key string) (database.SiteSetting, error) {
	s, ok := m.settings[key]
	if !ok {
		return database.SiteSetting{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *mockSettingsStore) UpsertSetting(_ context.Context, arg database.UpsertSettingParams) (database.SiteSetting, error) {
	s := database.SiteSetting{Key: arg.Key, Value: arg.Value, UpdatedAt: time.Now()}
	m.settings[arg.Key] = s
	return s, nil
}

func setupSettingsRouter(store *mockSettingsStore) *chi.Mux {
	h := handler.NewSettingsHandler(store)
	r := chi.NewRouter()
	r.Get("/logo", h.GetLogo)
	r.Put("/admin/logo", h.UpdateLogo)
	return r
}

// --- Tests ---

func TestGetLogo_Unset(t *testing.T) {
	router := setupSettingsRouter(newMockSettingsStore())

	rr := doRequest(t, router, "GET", "/logo", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeMap(t, rr)
	if resp["logo_url"] != "" {
		t.Errorf("logo_url: got %v, want empty", resp["logo_url"])
	}
}

func TestUpdateLogo_RoundTrip(t *testing.T) {
	store := newMockSettingsStore()
	router := setupSettingsRouter(store)

	rr := doRequest(t, router, "PUT", "/admin/logo", map[string]string{
		"logo_url": "https://res.cloudinary.com/dgxuw3zqp/image/upload/v123/logo.png",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	rr = doRequest(t, router, "GET", "/logo", nil)
	resp := decodeMap(t, rr)
	if resp["logo_url"] != "https://res.cloudinary.com/dgxuw3zqp/image/upload/v123/logo.png" {
		t.Errorf("logo_url: got %v", resp["logo_url"])
	}
}

func TestUpdateLogo_RequiresURL(t *testing.T) {
	router := setupSettingsRouter(newMockSettingsStore())

	rr := doRequest(t, router, "PUT", "/admin/logo", map[string]string{"logo_url": ""})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
