package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cuongbtq/hireboard/shared/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAMQP struct {
	routingKey  string
	body        []byte
	contentType string
	err         error
}

func (f *fakeAMQP) PublishWithRetry(_ context.Context, routingKey string, body []byte, contentType string) error {
	f.routingKey = routingKey
	f.body = body
	f.contentType = contentType
	return f.err
}

func TestNew(t *testing.T) {
	evt := New(TypeJobCreated, "Job created", "HR Team")

	_, err := uuid.Parse(evt.ID)
	assert.NoError(t, err)
	assert.Equal(t, TypeJobCreated, evt.Type)
	assert.False(t, evt.OccurredAt.IsZero())
	assert.Equal(t, "UTC", evt.OccurredAt.Location().String())
}

func TestDecode(t *testing.T) {
	valid := New(TypeCandidateStageMoved, "moved", "HR Team")
	validBody, err := json.Marshal(valid)
	require.NoError(t, err)

	tests := []struct {
		name    string
		body    []byte
		wantErr string
	}{
		{name: "valid", body: validBody},
		{name: "not json", body: []byte("nope"), wantErr: "failed to parse event JSON"},
		{name: "bad id", body: []byte(`{"id":"123","type":"job.created"}`), wantErr: "invalid event id"},
		{name: "no type", body: []byte(`{"id":"` + uuid.NewString() + `"}`), wantErr: "has no type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := Decode(tt.body)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, valid.ID, evt.ID)
			assert.True(t, valid.OccurredAt.Equal(evt.OccurredAt))
		})
	}
}

func TestBrokerPublisher(t *testing.T) {
	t.Run("publishes json under the event type", func(t *testing.T) {
		client := &fakeAMQP{}
		p := NewBrokerPublisher(client, logger.NewNop().Logger)

		evt := New(TypeJobsReordered, "3 jobs reordered", "HR Team")
		require.NoError(t, p.Publish(context.Background(), evt))

		assert.Equal(t, TypeJobsReordered, client.routingKey)
		assert.Equal(t, "application/json", client.contentType)

		decoded, err := Decode(client.body)
		require.NoError(t, err)
		assert.Equal(t, evt.ID, decoded.ID)
	})

	t.Run("wraps broker errors", func(t *testing.T) {
		brokerErr := errors.New("not connected to RabbitMQ")
		p := NewBrokerPublisher(&fakeAMQP{err: brokerErr}, logger.NewNop().Logger)

		err := p.Publish(context.Background(), New(TypeJobDeleted, "Job deleted", "HR Team"))
		assert.ErrorIs(t, err, brokerErr)
	})

	t.Run("nop publisher", func(t *testing.T) {
		assert.NoError(t, NopPublisher{}.Publish(context.Background(), PipelineEvent{}))
	})
}
