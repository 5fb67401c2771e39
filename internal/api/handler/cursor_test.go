package handler

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/cuongbtq/hireboard/internal/api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityCursor_RoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 30, 0, 123456000, time.UTC)
	encoded := EncodeActivityCursor(&storage.ActivityCursor{OccurredAt: at, EventID: "evt-1"})

	decoded, err := DecodeActivityCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, at.Equal(decoded.OccurredAt))
	assert.Equal(t, "evt-1", decoded.EventID)
}

func TestDecodeActivityCursor(t *testing.T) {
	tests := []struct {
		name    string
		cursor  string
		wantNil bool
		wantErr bool
	}{
		{name: "empty means first page", cursor: "", wantNil: true},
		{name: "not base64", cursor: "!!", wantErr: true},
		{name: "missing separator", cursor: base64.StdEncoding.EncodeToString([]byte("12345")), wantErr: true},
		{name: "missing event id", cursor: base64.StdEncoding.EncodeToString([]byte("12345|")), wantErr: true},
		{name: "bad timestamp", cursor: base64.StdEncoding.EncodeToString([]byte("abc|evt")), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeActivityCursor(tt.cursor)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
			}
		})
	}
}
