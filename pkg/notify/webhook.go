package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/artem13815/hr/booking/pkg/booking"
)

const (
	SignatureHeader = "X-Booking-Signature"
	DedupHeader     = "X-Booking-Dedup-Key"
)

// Webhook POSTs events as JSON to a collaborator endpoint.
type Webhook struct {
	URL    string
	secret []byte
	httpDo *http.Client
}

func NewWebhook(url, secret string) *Webhook {
	return &Webhook{
		URL:    url,
		secret: []byte(secret),
		httpDo: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Publish(ctx context.Context, e booking.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(DedupHeader, e.DedupKey())
	if len(w.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(w.secret, data))
	}

	resp, err := w.httpDo.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook http %d", resp.StatusCode)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body, prefixed with the scheme.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
