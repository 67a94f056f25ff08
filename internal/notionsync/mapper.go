package notionsync

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jomei/notionapi"

	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/money"
)

// Expense is one labeled ledger row prepared for Notion. ExpenseID is a
// content-derived UUID, so re-running the sync over the same dataset maps to
// the same pages.
type Expense struct {
	ExpenseID   string
	Amount      float64
	Date        string
	Category    string
	Description string
	Label       string
}

// ExpensesFromTable extracts the labeled rows of a reviewed dataset. Rows
// without a predicted label (or, lacking that column, a manual label) are not
// synced.
func ExpensesFromTable(table *ledger.Table) []Expense {
	labelCol := ledger.ColPredicted
	if !table.HasColumn(labelCol) {
		labelCol = ledger.ColLabel
	}

	var out []Expense
	for i := 0; i < table.Len(); i++ {
		label := table.Cell(i, labelCol)
		if ledger.IsMissing(label) {
			continue
		}

		amount := 0.0
		if v, err := ledger.ParseAmount(table.Cell(i, ledger.ColAmount)); err == nil {
			amount = money.Round2(v)
		}

		e := Expense{
			Amount:      amount,
			Date:        table.Cell(i, ledger.ColDate),
			Category:    table.Cell(i, ledger.ColCategory),
			Description: table.Cell(i, ledger.ColMerchant),
			Label:       label,
		}
		e.ExpenseID = expenseID(e)
		out = append(out, e)
	}
	return out
}

// expenseID derives a stable UUID from the row content. Duplicate rows
// collapse onto one page, which matches how the ledger treats them.
func expenseID(e Expense) string {
	seed := fmt.Sprintf("%s|%.2f|%s|%s", e.Date, e.Amount, e.Category, e.Description)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

// ExpenseToNotionProperties converts an expense to Notion page properties.
func ExpenseToNotionProperties(e Expense) notionapi.Properties {
	props := notionapi.Properties{
		"Expense ID": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: e.ExpenseID,
					},
				},
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: e.Amount,
		},
		"Want": notionapi.CheckboxProperty{
			Checkbox: e.Label == "want",
		},
	}

	if e.Category != "" {
		props["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: e.Category,
			},
		}
	}

	if e.Label != "" {
		props["Expense Type"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: e.Label,
			},
		}
	}

	if e.Description != "" {
		props["Merchant"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: e.Description,
					},
				},
			},
		}
	}

	if d, err := ledger.ParseDate(e.Date); err == nil {
		props["Date"] = notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: func() *notionapi.Date {
					nd := notionapi.Date(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC))
					return &nd
				}(),
			},
		}
	}

	return props
}
