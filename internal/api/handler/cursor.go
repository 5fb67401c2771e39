package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/cuongbtq/hireboard/internal/api/storage"
)

// DecodeActivityCursor parses a base64 "unixnano|event_id" cursor. An empty
// string means the first page.
func DecodeActivityCursor(cursorStr string) (*storage.ActivityCursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	decodedParts := strings.SplitN(string(decoded), "|", 2)
	if len(decodedParts) != 2 || decodedParts[1] == "" {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var occurredAt int64
	_, err = fmt.Sscanf(decodedParts[0], "%d", &occurredAt)
	if err != nil {
		return nil, fmt.Errorf("invalid occurredAt in cursor: %w", err)
	}

	return &storage.ActivityCursor{
		OccurredAt: time.Unix(0, occurredAt).UTC(),
		EventID:    decodedParts[1],
	}, nil
}

// EncodeActivityCursor renders the cursor pointing after the given entry.
func EncodeActivityCursor(cursor *storage.ActivityCursor) string {
	cs := fmt.Sprintf("%d|%s", cursor.OccurredAt.UnixNano(), cursor.EventID)
	return base64.StdEncoding.EncodeToString([]byte(cs))
}
