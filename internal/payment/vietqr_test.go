package payment

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/config"
)

func TestDepositInstructions(t *testing.T) {
	builder := NewQRBuilder(&config.Config{
		BankID:            "MB",
		BankAccount:       "0123456789",
		BankAccountName:   "NGUYEN VAN A",
		QRTemplate:        "compact2",
		PaymentMemoSuffix: "COC",
		PaymentWindow:     15 * time.Minute,
	})

	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	got, err := builder.Deposit("MPABC123", 1500000, created)
	if err != nil {
		t.Fatalf("Deposit returned error: %v", err)
	}

	if got.Memo != "MPABC123 COC" {
		t.Errorf("expected memo 'MPABC123 COC', got %q", got.Memo)
	}
	if !got.Deadline.Equal(created.Add(15 * time.Minute)) {
		t.Errorf("unexpected deadline %v", got.Deadline)
	}

	if !strings.HasPrefix(got.QRURL, "https://img.vietqr.io/image/mb-0123456789-compact2.png?") {
		t.Fatalf("unexpected QR URL %s", got.QRURL)
	}
	u, err := url.Parse(got.QRURL)
	if err != nil {
		t.Fatalf("QR URL does not parse: %v", err)
	}
	if u.Query().Get("amount") != "1500000" {
		t.Errorf("expected amount 1500000, got %s", u.Query().Get("amount"))
	}
	if u.Query().Get("addInfo") != "MPABC123 COC" {
		t.Errorf("expected addInfo to carry the memo, got %s", u.Query().Get("addInfo"))
	}
}

func TestDepositNotConfigured(t *testing.T) {
	builder := NewQRBuilder(&config.Config{})
	if _, err := builder.Deposit("MP1", 100, time.Now()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if builder.Memo("MP1") != "MP1" {
		t.Errorf("expected bare code without suffix")
	}
}
