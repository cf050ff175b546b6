package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopPublisher_DiscardsEvents(t *testing.T) {
	publisher := NewNoopEventPublisher()
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		event := NewEvent(EventQuizCompleted, QuizCompletedEvent{UserID: 5, QuizID: 1, Score: 40})
		require.NoError(t, publisher.Publish(ctx, event))
	}

	assert.NoError(t, publisher.Close())
}

func TestMockPublisher_RecordsByType(t *testing.T) {
	publisher := NewMockEventPublisher()
	ctx := context.Background()

	require.NoError(t, publisher.Publish(ctx, NewEvent(EventQuizCompleted, QuizCompletedEvent{UserID: 5})))
	require.NoError(t, publisher.Publish(ctx, NewEvent(EventBadgeEarned, BadgeEarnedEvent{UserID: 5, BadgeID: 2})))
	require.NoError(t, publisher.Publish(ctx, NewEvent(EventQuizCompleted, QuizCompletedEvent{UserID: 6})))

	assert.Len(t, publisher.Events, 3)
	assert.Len(t, publisher.EventsOfType(EventQuizCompleted), 2)
	assert.Len(t, publisher.EventsOfType(EventBadgeEarned), 1)
	assert.Empty(t, publisher.EventsOfType(EventLevelUp))
}

func TestNewEvent_Envelope(t *testing.T) {
	event := NewEvent(EventLevelUp, LevelUpEvent{UserID: 5, OldLevel: 1, NewLevel: 2})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventLevelUp, event.Type)
	assert.Equal(t, "cricket-quiz-service", event.Source)
	assert.Equal(t, "1.0", event.Version)
	assert.False(t, event.Timestamp.IsZero())
}
