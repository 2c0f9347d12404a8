package handler_test

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/enum"
	"github.com/dhakabakes/api/internal/handler"
	"github.com/dhakabakes/api/internal/service"
	"github.com/dhakabakes/api/internal/ws"
)

// --- Mocks ---

type mockBannerStore struct {
	banners map[uuid.UUID]database.BannerSetting
}

func newMockBannerStore() *mockBannerStore {
	return &mockBannerStore{banners: make(map[uuid.UUID]database.BannerSetting)}
}

func (m *mockBannerStore) ListBanners(_ context.Context) ([]database.BannerSetting, error) {
	result := make([]database.BannerSetting, 0, len(m.banners))
	for _, b := range m.banners {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DisplayOrder < result[j].DisplayOrder
	})
	return result, nil
}

func (m *mockBannerStore) GetBanner(_ context.Context, id uuid.UUID) (database.BannerSetting, error) {
	b, ok := m.banners[id]
	if !ok {
		return database.BannerSetting{}, pgx.ErrNoRows
	}
	return b, nil
}

func (m *mockBannerStore) CreateBanner(_ context.Context, arg database.CreateBannerParams) (database.BannerSetting, error) {
	b := database.BannerSetting{
		ID:           uuid.New(),
		BannerType:   arg.BannerType,
		BannerUrl:    arg.BannerUrl,
		DisplayOrder: arg.DisplayOrder,
		CreatedAt:    time.Now(),
	}
	m.banners[b.ID] = b
	return b, nil
}

func (m *mockBannerStore) DeleteBanner(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	if _, ok := m.banners[id]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(m.banners, id)
	return id, nil
}

func (m *mockBannerStore) SetBannerOrder(_ context.Context, arg database.SetBannerOrderParams) error {
	b, ok := m.banners[arg.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	b.DisplayOrder = arg.DisplayOrder
	m.banners[arg.ID] = b
	return nil
}

func (m *mockBannerStore) MaxBannerOrder(_ context.Context) (int32, error) {
	max := int32(-1)
	for _, b := range m.banners {
		if b.DisplayOrder > max {
			max = b.DisplayOrder
		}
	}
	return max, nil
}

func (m *mockBannerStore) seed(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		b := database.BannerSetting{
			ID:           uuid.New(),
			BannerType:   enum.BannerTypeImage,
			BannerUrl:    "https://cdn.example.com/banner.jpg",
			DisplayOrder: int32(i),
			CreatedAt:    time.Now(),
		}
		m.banners[b.ID] = b
		ids[i] = b.ID
	}
	return ids
}

type mockCarousel struct {
	counts []int
}

func (m *mockCarousel) SetCount(count int) {
	m.counts = append(m.counts, count)
}

type mockBroadcaster struct {
	events []ws.Event
	topics []string
}

func (m *mockBroadcaster) Broadcast(topic string, event ws.Event) {
	m.topics = append(m.topics, topic)
	m.events = append(m.events, event)
}

func setupBannerRouter(store *mockBannerStore, carousel *mockCarousel, hub *mockBroadcaster) *chi.Mux {
	svc := service.NewBannerService(mockTxBeginner{}, func(_ database.DBTX) service.BannerStore {
		return store
	})
	h := handler.NewBannerHandler(store, svc, carousel, hub)
	r := chi.NewRouter()
	r.Route("/admin/banners", h.RegisterAdminRoutes)
	return r
}

// assertDense fails unless display orders form exactly 0..N-1.
func assertDense(t *testing.T, store *mockBannerStore) {
	t.Helper()
	seen := make(map[int32]bool)
	for _, b := range store.banners {
		if seen[b.DisplayOrder] {
			t.Fatalf("duplicate display_order %d", b.DisplayOrder)
		}
		seen[b.DisplayOrder] = true
	}
	for i := int32(0); i < int32(len(store.banners)); i++ {
		if !seen[i] {
			t.Fatalf("missing display_order %d", i)
		}
	}
}

// --- Tests ---

func TestBannerCreate_AppendsAtEnd(t *testing.T) {
	store := newMockBannerStore()
	store.seed(2)
	carousel := &mockCarousel{}
	router := setupBannerRouter(store, carousel, &mockBroadcaster{})

	rr := doRequest(t, router, "POST", "/admin/banners/", map[string]string{
		"banner_type": "video",
		"banner_url":  "https://cdn.example.com/promo.mp4",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeMap(t, rr)
	if resp["display_order"] != float64(2) {
		t.Errorf("display_order: got %v, want 2", resp["display_order"])
	}
	if len(carousel.counts) == 0 || carousel.counts[len(carousel.counts)-1] != 3 {
		t.Errorf("rotator count not synced: %v", carousel.counts)
	}
}

func TestBannerCreate_RejectsUnknownType(t *testing.T) {
	store := newMockBannerStore()
	router := setupBannerRouter(store, &mockCarousel{}, &mockBroadcaster{})

	rr := doRequest(t, router, "POST", "/admin/banners/", map[string]string{
		"banner_type": "gif",
		"banner_url":  "https://cdn.example.com/promo.gif",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestBannerDelete_RenumbersRemaining(t *testing.T) {
	store := newMockBannerStore()
	ids := store.seed(4)
	hub := &mockBroadcaster{}
	router := setupBannerRouter(store, &mockCarousel{}, hub)

	// Remove the banner at position 1; 2 and 3 must slide down.
	rr := doRequest(t, router, "DELETE", "/admin/banners/"+ids[1].String(), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	assertDense(t, store)
	if store.banners[ids[2]].DisplayOrder != 1 || store.banners[ids[3]].DisplayOrder != 2 {
		t.Errorf("unexpected orders after delete: %d, %d",
			store.banners[ids[2]].DisplayOrder, store.banners[ids[3]].DisplayOrder)
	}

	if len(hub.topics) == 0 || hub.topics[len(hub.topics)-1] != ws.TopicCarousel {
		t.Errorf("expected carousel broadcast, got %v", hub.topics)
	}
}

func TestBannerMoveUp_AtFrontIsNoOp(t *testing.T) {
	store := newMockBannerStore()
	ids := store.seed(3)
	router := setupBannerRouter(store, &mockCarousel{}, &mockBroadcaster{})

	rr := doRequest(t, router, "PUT", "/admin/banners/"+ids[0].String()+"/move-up", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if store.banners[ids[0]].DisplayOrder != 0 {
		t.Errorf("front banner moved: order %d", store.banners[ids[0]].DisplayOrder)
	}
	assertDense(t, store)
}

func TestBannerMoveDown_SwapsWithNext(t *testing.T) {
	store := newMockBannerStore()
	ids := store.seed(3)
	router := setupBannerRouter(store, &mockCarousel{}, &mockBroadcaster{})

	rr := doRequest(t, router, "PUT", "/admin/banners/"+ids[0].String()+"/move-down", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if store.banners[ids[0]].DisplayOrder != 1 || store.banners[ids[1]].DisplayOrder != 0 {
		t.Errorf("swap failed: %d, %d", store.banners[ids[0]].DisplayOrder, store.banners[ids[1]].DisplayOrder)
	}
	assertDense(t, store)
}

func TestBannerMoveTo_ShiftsRange(t *testing.T) {
	store := newMockBannerStore()
	ids := store.seed(4)
	router := setupBannerRouter(store, &mockCarousel{}, &mockBroadcaster{})

	// Move the last banner to the front; everything else shifts back.
	rr := doRequest(t, router, "PUT", "/admin/banners/"+ids[3].String()+"/position", map[string]int{"position": 0})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	want := map[uuid.UUID]int32{ids[3]: 0, ids[0]: 1, ids[1]: 2, ids[2]: 3}
	for id, order := range want {
		if store.banners[id].DisplayOrder != order {
			t.Errorf("banner %s: order got %d, want %d", id, store.banners[id].DisplayOrder, order)
		}
	}
	assertDense(t, store)
}

func TestBannerMoveTo_OutOfRange(t *testing.T) {
	store := newMockBannerStore()
	ids := store.seed(2)
	router := setupBannerRouter(store, &mockCarousel{}, &mockBroadcaster{})

	rr := doRequest(t, router, "PUT", "/admin/banners/"+ids[0].String()+"/position", map[string]int{"position": 5})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	assertDense(t, store)
}

func TestBannerList_SortedByDisplayOrder(t *testing.T) {
	store := newMockBannerStore()
	store.seed(3)
	router := setupBannerRouter(store, &mockCarousel{}, &mockBroadcaster{})

	rr := doRequest(t, router, "GET", "/admin/banners/", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeList(t, rr)
	for i, b := range resp {
		if b["display_order"] != float64(i) {
			t.Errorf("position %d: display_order got %v", i, b["display_order"])
		}
	}
}
