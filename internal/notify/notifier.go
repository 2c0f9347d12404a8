// Package notify delivers order notifications to an external automation
// webhook. Delivery is fire-and-forget: the checkout path never waits on
// it and never sees its errors. Failed deliveries land in a bounded
// dead-letter buffer instead of being discarded.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	deliverTimeout = 10 * time.Second
	maxDeadLetters = 100
)

// OrderPayload is the JSON body posted to the webhook.
type OrderPayload struct {
	OrderID         string `json:"order_id"`
	ItemName        string `json:"item_name"`
	Quantity        int32  `json:"quantity"`
	TotalAmount     string `json:"total_amount"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	SpecialNotes    string `json:"special_notes"`
	OrderDate       string `json:"order_date"`
	Currency        string `json:"currency"`
}

// FailedDelivery records one webhook delivery that did not go through.
type FailedDelivery struct {
	Payload  OrderPayload `json:"payload"`
	Error    string       `json:"error"`
	FailedAt time.Time    `json:"failed_at"`
}

// Notifier posts order payloads to a single webhook URL.
type Notifier struct {
	url    string
	client *http.Client

	mu   sync.Mutex
	dead []FailedDelivery
}

// New creates a Notifier. An empty URL disables delivery entirely.
func New(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: deliverTimeout},
	}
}

// Enqueue hands a payload off for background delivery and returns
// immediately.
func (n *Notifier) Enqueue(payload OrderPayload) {
	if n.url == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		defer cancel()
		if err := n.Deliver(ctx, payload); err != nil {
			log.Printf("ERROR: order notification %s: %v", payload.OrderID, err)
		}
	}()
}

// Deliver posts the payload synchronously. On failure it records a dead
// letter and returns the error.
func (n *Notifier) Deliver(ctx context.Context, payload OrderPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		n.recordFailure(payload, err)
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		n.recordFailure(payload, err)
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.recordFailure(payload, err)
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("webhook returned %d", resp.StatusCode)
		n.recordFailure(payload, err)
		return err
	}
	return nil
}

// DeadLetters returns the recorded failures, newest last.
func (n *Notifier) DeadLetters() []FailedDelivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]FailedDelivery, len(n.dead))
	copy(out, n.dead)
	return out
}

func (n *Notifier) recordFailure(payload OrderPayload, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dead = append(n.dead, FailedDelivery{
		Payload:  payload,
		Error:    err.Error(),
		FailedAt: time.Now(),
	})
	if len(n.dead) > maxDeadLetters {
		n.dead = n.dead[len(n.dead)-maxDeadLetters:]
	}
}
