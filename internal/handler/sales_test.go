package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/handler"
	"github.com/dhakabakes/api/internal/service"
)

// --- Transaction mocks shared by handler tests that wire real services ---

// mockTx only needs Commit and Rollback; the embedded interface covers
// the rest and panics if anything else is called.
type mockTx struct {
	pgx.Tx
}

func (m *mockTx) Commit(_ context.Context) error   { return nil }
func (m *mockTx) Rollback(_ context.Context) error { return nil }

type mockTxBeginner struct{}

func (mockTxBeginner) Begin(_ context.Context) (pgx.Tx, error) {
	return &mockTx{}, nil
}

// --- Mock store ---

type mockSaleStore struct {
	sales map[uuid.UUID]database.GlobalSale
}

func newMockSaleStore() *mockSaleStore {
	return &mockSaleStore{sales: make(map[uuid.UUID]database.GlobalSale)}
}

func (m *mockSaleStore) ListGlobalSales(_ context.Context) ([]database.GlobalSale, error) {
	var result []database.GlobalSale
	for _, s := range m.sales {
		result = append(result, s)
	}
	return result, nil
}

func (m *mockSaleStore) GetGlobalSale(_ context.Context, id uuid.UUID) (database.GlobalSale, error) {
	s, ok := m.sales[id]
	if !ok {
		return database.GlobalSale{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *mockSaleStore) CreateGlobalSale(_ context.Context, arg database.CreateGlobalSaleParams) (database.GlobalSale, error) {
	now := time.Now()
	s := database.GlobalSale{
		ID:                 uuid.New(),
		Name:               arg.Name,
		Description:        arg.Description,
		DiscountPercentage: arg.DiscountPercentage,
		IsActive:           false,
		StartDate:          arg.StartDate,
		EndDate:            arg.EndDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	m.sales[s.ID] = s
	return s, nil
}

func (m *mockSaleStore) DeactivateAllSales(_ context.Context) error {
	for id, s := range m.sales {
		s.IsActive = false
		m.sales[id] = s
	}
	return nil
}

func (m *mockSaleStore) ActivateGlobalSale(_ context.Context, id uuid.UUID) (database.GlobalSale, error) {
	s, ok := m.sales[id]
	if !ok {
		return database.GlobalSale{}, pgx.ErrNoRows
	}
	s.IsActive = true
	s.UpdatedAt = time.Now()
	m.sales[id] = s
	return s, nil
}

func (m *mockSaleStore) DeactivateGlobalSale(_ context.Context, id uuid.UUID) (database.GlobalSale, error) {
	s, ok := m.sales[id]
	if !ok {
		return database.GlobalSale{}, pgx.ErrNoRows
	}
	s.IsActive = false
	s.UpdatedAt = time.Now()
	m.sales[id] = s
	return s, nil
}

func (m *mockSaleStore) DeleteGlobalSale(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	if _, ok := m.sales[id]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(m.sales, id)
	return id, nil
}

func setupSaleRouter(store *mockSaleStore) *chi.Mux {
	svc := service.NewSaleService(mockTxBeginner{}, func(_ database.DBTX) service.SaleStore {
		return store
	})
	h := handler.NewSaleHandler(store, svc)
	r := chi.NewRouter()
	r.Route("/admin/sales", h.RegisterRoutes)
	return r
}

// --- Tests ---

func TestSaleCreate_Valid(t *testing.T) {
	store := newMockSaleStore()
	router := setupSaleRouter(store)

	rr := doRequest(t, router, "POST", "/admin/sales/", map[string]interface{}{
		"name":                "Ramadan Sale",
		"discount_percentage": 15,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeMap(t, rr)
	if resp["is_active"] != false {
		t.Error("new sales must be created inactive")
	}
}

func TestSaleCreate_RejectsBadPercentage(t *testing.T) {
	store := newMockSaleStore()
	router := setupSaleRouter(store)

	for _, pct := range []int{0, 101, -5} {
		rr := doRequest(t, router, "POST", "/admin/sales/", map[string]interface{}{
			"name":                "Bad Sale",
			"discount_percentage": pct,
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("pct %d: status got %d, want %d", pct, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestSaleActivate_DeactivatesOthers(t *testing.T) {
	store := newMockSaleStore()
	first := uuid.New()
	second := uuid.New()
	store.sales[first] = database.GlobalSale{ID: first, Name: "First", DiscountPercentage: 10, IsActive: true}
	store.sales[second] = database.GlobalSale{ID: second, Name: "Second", DiscountPercentage: 20}
	router := setupSaleRouter(store)

	rr := doRequest(t, router, "PUT", "/admin/sales/"+second.String()+"/activate", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	active := 0
	for _, s := range store.sales {
		if s.IsActive {
			active++
			if s.ID != second {
				t.Errorf("wrong sale active: %s", s.Name)
			}
		}
	}
	if active != 1 {
		t.Errorf("expected exactly 1 active sale, got %d", active)
	}
}

func TestSaleActivate_NotFound(t *testing.T) {
	store := newMockSaleStore()
	router := setupSaleRouter(store)

	rr := doRequest(t, router, "PUT", "/admin/sales/"+uuid.New().String()+"/activate", nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestSaleDeactivate_Valid(t *testing.T) {
	store := newMockSaleStore()
	id := uuid.New()
	store.sales[id] = database.GlobalSale{ID: id, Name: "Live", DiscountPercentage: 30, IsActive: true}
	router := setupSaleRouter(store)

	rr := doRequest(t, router, "PUT", "/admin/sales/"+id.String()+"/deactivate", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if store.sales[id].IsActive {
		t.Error("sale should be inactive")
	}
}

func TestSaleDelete_Valid(t *testing.T) {
	store := newMockSaleStore()
	id := uuid.New()
	store.sales[id] = database.GlobalSale{ID: id, Name: "Doomed", DiscountPercentage: 5}
	router := setupSaleRouter(store)

	rr := doRequest(t, router, "DELETE", "/admin/sales/"+id.String(), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if len(store.sales) != 0 {
		t.Errorf("expected sale removed, %d remain", len(store.sales))
	}
}

func TestSaleGet_WithDates(t *testing.T) {
	store := newMockSaleStore()
	id := uuid.New()
	start := time.Now().Truncate(time.Second)
	store.sales[id] = database.GlobalSale{
		ID: id, Name: "Dated", DiscountPercentage: 10,
		StartDate: pgtype.Timestamptz{Time: start, Valid: true},
	}
	router := setupSaleRouter(store)

	rr := doRequest(t, router, "GET", "/admin/sales/"+id.String(), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeMap(t, rr)
	if resp["start_date"] == nil {
		t.Error("expected start_date in response")
	}
	if resp["end_date"] != nil {
		t.Errorf("end_date: got %v, want null", resp["end_date"])
	}
}
