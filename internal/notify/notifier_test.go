package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testPayload() OrderPayload {
	return OrderPayload{
		OrderID:         "ORDER-1748779200000",
		ItemName:        "Chocolate Cake",
		Quantity:        2,
		TotalAmount:     "1500.00",
		CustomerName:    "Rahim Uddin",
		CustomerEmail:   "rahim@example.com",
		CustomerPhone:   "01712345678",
		CustomerAddress: "Dhanmondi, Dhaka",
		OrderDate:       time.Now().UTC().Format(time.RFC3339),
		Currency:        "BDT",
	}
}

func TestDeliver_PostsJSONBody(t *testing.T) {
	var got OrderPayload
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("unmarshal body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := New(server.URL)
	if err := n.Deliver(context.Background(), testPayload()); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if contentType != "application/json" {
		t.Errorf("content type: got %q, want application/json", contentType)
	}
	if got.OrderID != "ORDER-1748779200000" {
		t.Errorf("order_id: got %q", got.OrderID)
	}
	if got.Currency != "BDT" {
		t.Errorf("currency: got %q, want BDT", got.Currency)
	}
	if len(n.DeadLetters()) != 0 {
		t.Errorf("dead letters: got %d, want 0", len(n.DeadLetters()))
	}
}

func TestDeliver_RecordsDeadLetterOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := New(server.URL)
	if err := n.Deliver(context.Background(), testPayload()); err == nil {
		t.Fatal("expected error for 502 response")
	}

	dead := n.DeadLetters()
	if len(dead) != 1 {
		t.Fatalf("dead letters: got %d, want 1", len(dead))
	}
	if dead[0].Payload.OrderID != "ORDER-1748779200000" {
		t.Errorf("dead letter order_id: got %q", dead[0].Payload.OrderID)
	}
}

func TestDeliver_RecordsDeadLetterOnConnectionFailure(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	n := New(url)
	if err := n.Deliver(context.Background(), testPayload()); err == nil {
		t.Fatal("expected error for unreachable webhook")
	}
	if len(n.DeadLetters()) != 1 {
		t.Errorf("dead letters: got %d, want 1", len(n.DeadLetters()))
	}
}

func TestEnqueue_DisabledWithoutURL(t *testing.T) {
	n := New("")
	n.Enqueue(testPayload())
	// Nothing to deliver to, nothing recorded.
	if len(n.DeadLetters()) != 0 {
		t.Errorf("dead letters: got %d, want 0", len(n.DeadLetters()))
	}
}

func TestDeadLetters_Bounded(t *testing.T) {
	n := New("http://unused.invalid")
	for i := 0; i < maxDeadLetters+10; i++ {
		n.recordFailure(testPayload(), context.DeadlineExceeded)
	}
	if got := len(n.DeadLetters()); got != maxDeadLetters {
		t.Errorf("dead letters: got %d, want %d", got, maxDeadLetters)
	}
}
