package payment

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/config"
)

var ErrNotConfigured = errors.New("bank account for QR payments is not configured")

// Instructions tell the guest how to pay the deposit.
type Instructions struct {
	QRURL       string    `json:"qrUrl"`
	BankID      string    `json:"bankId"`
	Account     string    `json:"accountNumber"`
	AccountName string    `json:"accountName"`
	Amount      int64     `json:"amount"`
	Memo        string    `json:"memo"`
	Deadline    time.Time `json:"paymentDeadline"`
}

// QRBuilder renders VietQR image links for bank transfers.
type QRBuilder struct {
	bankID      string
	account     string
	accountName string
	template    string
	memoSuffix  string
	window      time.Duration
}

func NewQRBuilder(cfg *config.Config) *QRBuilder {
	return &QRBuilder{
		bankID:      cfg.BankID,
		account:     cfg.BankAccount,
		accountName: cfg.BankAccountName,
		template:    cfg.QRTemplate,
		memoSuffix:  cfg.PaymentMemoSuffix,
		window:      cfg.PaymentWindow,
	}
}

// Memo is the transfer description staff match against bank statements.
func (b *QRBuilder) Memo(code string) string {
	if b.memoSuffix == "" {
		return code
	}
	return code + " " + b.memoSuffix
}

// Deposit builds the payment instructions for a booking deposit. The deadline
// is advisory; nothing expires server-side.
func (b *QRBuilder) Deposit(code string, amount int64, createdAt time.Time) (Instructions, error) {
	if b.bankID == "" || b.account == "" {
		return Instructions{}, ErrNotConfigured
	}

	memo := b.Memo(code)
	q := url.Values{}
	q.Set("amount", fmt.Sprintf("%d", amount))
	q.Set("addInfo", memo)
	if b.accountName != "" {
		q.Set("accountName", b.accountName)
	}

	template := b.template
	if template == "" {
		template = "compact2"
	}
	qrURL := fmt.Sprintf("https://img.vietqr.io/image/%s-%s-%s.png?%s",
		url.PathEscape(strings.ToLower(b.bankID)), url.PathEscape(b.account), template, q.Encode())

	return Instructions{
		QRURL:       qrURL,
		BankID:      b.bankID,
		Account:     b.account,
		AccountName: b.accountName,
		Amount:      amount,
		Memo:        memo,
		Deadline:    createdAt.Add(b.window),
	}, nil
}
