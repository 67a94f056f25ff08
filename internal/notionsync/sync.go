package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/logger"
)

// BatchSize defines the number of expenses to process in a single batch.
const BatchSize = 100

// SyncExpenses mirrors the labeled rows of a reviewed dataset into a Notion
// database. It archives pages whose expense is no longer in the dataset,
// refreshes pages already present, and creates the rest. The expense ID
// excludes the label, so a re-classification that flips a row lands on the
// same page and the refresh carries the new label over. Per-page failures
// are logged and skipped; the sync keeps going.
func SyncExpenses(ctx context.Context, table *ledger.Table, notionClient NotionService, notionDBID string, dryRun bool) error {
	log := logger.FromContext(ctx)

	expenses := ExpensesFromTable(table)

	log.Info().
		Bool("dry_run", dryRun).
		Int("expense_count", len(expenses)).
		Msg("Starting expense sync to Notion")

	validIDs := make(map[string]bool, len(expenses))
	for _, e := range expenses {
		validIDs[e.ExpenseID] = true
	}

	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("SyncExpenses: %w", err)
	}

	log.Info().Int("notion_page_count", len(notionPages)).Msg("Retrieved existing Notion pages")

	existingPages := make(map[string]string, len(notionPages))
	for _, page := range notionPages {
		if id := extractExpenseID(page); id != "" {
			existingPages[id] = string(page.ID)
		}
	}

	// Archive pages for expenses no longer in the dataset, and pages without
	// an expense ID left behind by older syncs.
	var deleted int
	for _, page := range notionPages {
		id := extractExpenseID(page)
		if id != "" && validIDs[id] {
			continue
		}

		if dryRun {
			log.Info().
				Str("expense_id", id).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would archive stale Notion page")
			deleted++
			continue
		}
		if err := notionClient.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("expense_id", id).
				Str("page_id", string(page.ID)).
				Msg("Failed to archive stale Notion page")
			continue
		}
		log.Info().
			Str("expense_id", id).
			Str("page_id", string(page.ID)).
			Msg("Archived stale Notion page")
		deleted++
	}

	var created, updated, skipped int
	synced := make(map[string]bool, len(expenses))
	for i := 0; i < len(expenses); i += BatchSize {
		end := i + BatchSize
		if end > len(expenses) {
			end = len(expenses)
		}

		for _, e := range expenses[i:end] {
			// Duplicate rows collapse onto one page; sync it once.
			if synced[e.ExpenseID] {
				skipped++
				continue
			}
			synced[e.ExpenseID] = true

			pageID, exists := existingPages[e.ExpenseID]

			if dryRun {
				if exists {
					log.Info().
						Str("expense_id", e.ExpenseID).
						Str("page_id", pageID).
						Msg("[DRY RUN] Would refresh Notion page")
					updated++
				} else {
					log.Info().
						Str("expense_id", e.ExpenseID).
						Msg("[DRY RUN] Would create Notion page")
					created++
				}
				continue
			}

			props := ExpenseToNotionProperties(e)
			if exists {
				if _, err := notionClient.UpdatePage(ctx, pageID, props); err != nil {
					log.Warn().
						Err(err).
						Str("expense_id", e.ExpenseID).
						Str("page_id", pageID).
						Msg("Failed to refresh Notion page")
					continue
				}
				log.Info().
					Str("expense_id", e.ExpenseID).
					Str("page_id", pageID).
					Msg("Refreshed Notion page")
				updated++
				continue
			}

			page, err := notionClient.CreatePage(ctx, notionDBID, props)
			if err != nil {
				log.Warn().
					Err(err).
					Str("expense_id", e.ExpenseID).
					Msg("Failed to create Notion page")
				continue
			}
			log.Info().
				Str("expense_id", e.ExpenseID).
				Str("page_id", string(page.ID)).
				Msg("Created Notion page")
			created++
		}
	}

	log.Info().
		Int("deleted", deleted).
		Int("created", created).
		Int("updated", updated).
		Int("skipped", skipped).
		Int("total", len(expenses)).
		Msg("Expense sync completed")

	return nil
}

// queryAllNotionPages queries all pages from a Notion database, following
// pagination.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}

// extractExpenseID extracts the expense ID from a Notion page's properties.
// Returns empty string if not found.
func extractExpenseID(page notionapi.Page) string {
	if prop, ok := page.Properties["Expense ID"]; ok {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if len(title.Title) > 0 {
				return title.Title[0].PlainText
			}
		}
	}
	return ""
}
