package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/moneytransfer/internal/domain"
)

func TestRenderTransactions(t *testing.T) {
	var buf bytes.Buffer

	RenderTransactions(&buf, []*domain.TransactionRecord{{
		ID:         12,
		SenderID:   "ACC1001",
		ReceiverID: "ACC2001",
		Amount:     decimal.RequireFromString("1000"),
		Currency:   "INR",
		Status:     domain.StatusSuccess,
		Reason:     "rent",
		CreatedAt:  time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC),
	}})

	out := buf.String()
	for _, want := range []string{"ACC1001", "ACC2001", "1000.00", "SUCCESS", "rent", "2024-03-10 14:00:00 UTC"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderTransactionsEmpty(t *testing.T) {
	var buf bytes.Buffer

	RenderTransactions(&buf, nil)

	if strings.TrimSpace(buf.String()) != "No transactions found." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer

	RenderSummary(&buf, &domain.DailySummary{
		Date:              time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		TotalTransactions: 3,
		TotalAmount:       decimal.RequireFromString("250.5"),
	})

	out := buf.String()
	if !strings.Contains(out, "2024-03-09") || !strings.Contains(out, "250.50") {
		t.Fatalf("unexpected summary output:\n%s", out)
	}
}

func TestRenderSendersHidesCredentials(t *testing.T) {
	var buf bytes.Buffer

	RenderSenders(&buf, []*domain.SenderAccount{{
		ID:               "ACC1001",
		CredentialSecret: "$2a$10$secret-hash",
		Balance:          decimal.RequireFromString("90000"),
		Currency:         "INR",
	}})

	if strings.Contains(buf.String(), "secret-hash") {
		t.Fatalf("credential leaked into output:\n%s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}
