package splitwise

import (
	"context"
	"fmt"

	"github.com/mduse88/family-expenses/internal/log"
	"github.com/mduse88/family-expenses/internal/table"
)

// pageSize is the fixed batch size for paginated requests.
const pageSize = 100

// FetchAll retrieves every visible expense the authenticated identity can
// see, walking pages of 100 from offset 0 until an empty page comes back.
// When groupID is empty the fetch spans all groups; that broadened scope is
// logged rather than hidden. Every record is normalized into a flat row so
// the result is always suitable for tabular storage.
//
// A request error aborts the whole fetch: pages accumulated so far are
// discarded since accumulation is in-memory only.
func FetchAll(ctx context.Context, lister ExpenseLister, groupID string, logger *log.Logger) (table.Table, error) {
	if groupID != "" {
		logger.InfoContext(ctx, "Fetching expenses for group", log.FieldGroupID, groupID)
	} else {
		logger.WarnContext(ctx, "No group_id configured, fetching expenses from ALL groups")
	}

	var records []Record
	for offset := 0; ; offset += pageSize {
		batch, err := lister.ListExpenses(ctx, ListOptions{
			Visible: true,
			GroupID: groupID,
			Limit:   pageSize,
			Offset:  offset,
		})
		if err != nil {
			return nil, fmt.Errorf("list expenses at offset %d: %w", offset, err)
		}
		if len(batch) == 0 {
			break
		}
		records = append(records, batch...)
		logger.InfoContext(ctx, "Fetched expense page",
			log.FieldOffset, offset,
			log.FieldRecords, len(records))
	}

	logger.InfoContext(ctx, "Retrieved all expense records", log.FieldRecords, len(records))

	rows := make(table.Table, len(records))
	for i, record := range records {
		rows[i] = table.NormalizeRecord(record)
	}
	return rows, nil
}
