package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/iho/moneytransfer/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05 MST"

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	return table
}

// RenderTransactions writes records as a table, most recent first as given.
func RenderTransactions(w io.Writer, records []*domain.TransactionRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return
	}

	table := newTable(w, []string{"ID", "Created", "Sender", "Receiver", "Amount", "Currency", "Status", "Reason"})
	for _, rec := range records {
		table.Append([]string{
			strconv.FormatInt(rec.ID, 10),
			rec.CreatedAt.Format(timeLayout),
			rec.SenderID,
			rec.ReceiverID,
			rec.Amount.StringFixed(domain.MoneyScale),
			rec.Currency,
			string(rec.Status),
			truncate(rec.Reason, 48),
		})
	}

	table.Render()
}

// RenderTransaction writes every field of one record.
func RenderTransaction(w io.Writer, rec *domain.TransactionRecord) {
	table := newTable(w, []string{"Field", "Value"})
	table.AppendBulk([][]string{
		{"ID", strconv.FormatInt(rec.ID, 10)},
		{"Created", rec.CreatedAt.Format(timeLayout)},
		{"Sender", rec.SenderID},
		{"Receiver", rec.ReceiverID},
		{"Amount", rec.Amount.StringFixed(domain.MoneyScale)},
		{"Currency", rec.Currency},
		{"Status", string(rec.Status)},
		{"Reason", rec.Reason},
		{"Sender balance before", rec.SenderBalanceBefore.StringFixed(domain.MoneyScale)},
		{"Sender balance after", rec.SenderBalanceAfter.StringFixed(domain.MoneyScale)},
		{"Receiver daily before", rec.ReceiverDailyBefore.StringFixed(domain.MoneyScale)},
		{"Receiver daily after", rec.ReceiverDailyAfter.StringFixed(domain.MoneyScale)},
	})
	table.Render()
}

// RenderSummary writes a daily summary.
func RenderSummary(w io.Writer, summary *domain.DailySummary) {
	table := newTable(w, []string{"Date", "Transactions", "Total Amount"})
	table.Append([]string{
		summary.Date.Format(domain.DateLayout),
		strconv.FormatInt(summary.TotalTransactions, 10),
		summary.TotalAmount.StringFixed(domain.MoneyScale),
	})
	table.Render()
}

// RenderSenders writes sender accounts. Credentials are never shown.
func RenderSenders(w io.Writer, senders []*domain.SenderAccount) {
	if len(senders) == 0 {
		fmt.Fprintln(w, "No sender accounts found.")
		return
	}

	table := newTable(w, []string{"Account", "Balance", "Currency", "Contact", "Updated"})
	for _, s := range senders {
		table.Append([]string{
			s.ID,
			s.Balance.StringFixed(domain.MoneyScale),
			s.Currency,
			s.ContactInfo,
			formatTime(s.UpdatedAt),
		})
	}

	table.Render()
}

// RenderReceivers writes receiver accounts with their rolling counters as stored.
func RenderReceivers(w io.Writer, receivers []*domain.ReceiverAccount) {
	if len(receivers) == 0 {
		fmt.Fprintln(w, "No receiver accounts found.")
		return
	}

	table := newTable(w, []string{"Account", "Name", "Currency", "Daily Limit", "Received", "Last Reset"})
	for _, r := range receivers {
		table.Append([]string{
			r.ID,
			r.DisplayName,
			r.Currency,
			r.DailyLimit.StringFixed(domain.MoneyScale),
			r.DailyReceived.StringFixed(domain.MoneyScale),
			r.LastResetDate.Format(domain.DateLayout),
		})
	}

	table.Render()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format(timeLayout)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	if max <= 3 {
		return s[:max]
	}

	return s[:max-3] + "..."
}
