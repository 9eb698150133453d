package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/plotari/chat-service/internal/core/search"
)

// LogSearch records one search for analytics. Intent is stored as JSONB so
// the schema survives new intent fields.
func (b *Backend) LogSearch(ctx context.Context, entry *search.LogEntry) error {
	var intentJSON []byte
	if entry.Intent != nil {
		var err error
		intentJSON, err = json.Marshal(entry.Intent)
		if err != nil {
			return fmt.Errorf("failed to marshal search intent: %w", err)
		}
	}

	query := `
		INSERT INTO search_logs (user_id, session_id, query, intent, result_count, result_zpids, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := b.db.ExecContext(ctx, query,
		entry.UserID, entry.SessionID, entry.Query, intentJSON,
		entry.ResultCount, pq.Array(entry.ResultZPIDs), entry.DurationMs)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}
