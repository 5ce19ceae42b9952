package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newGoChannel(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubsub.Close() })
	return pubsub
}

func receive(t *testing.T, ch <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-ch:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestWatermillSink_PublishesMaskedPayload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pubsub := newGoChannel(t)

	messages, err := pubsub.Subscribe(ctx, types.TopicProfileUpdated)
	require.NoError(t, err)

	sink, err := NewWatermillSink(WatermillConfig{Publisher: pubsub})
	require.NoError(t, err)

	event := types.ProfileUpdatedEvent{
		ProfileID: uuid.New(),
		Name:      "Ada",
		Email:     "ada@example.com",
		Status:    types.ProfileStatusAvailable,
	}
	require.NoError(t, sink.Publish(ctx, types.TopicProfileUpdated, event))

	msg := receive(t, messages)
	require.Equal(t, types.TopicProfileUpdated, msg.Metadata.Get(MetadataTopic))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &body))
	require.Equal(t, "Ada", body["name"])
	require.Equal(t, event.ProfileID.String(), body["profile_id"])
	require.NotEqual(t, "ada@example.com", body["email"])
}

func TestWatermillSink_RemapsTopics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pubsub := newGoChannel(t)

	messages, err := pubsub.Subscribe(ctx, "moderation.queue")
	require.NoError(t, err)

	sink, err := NewWatermillSink(WatermillConfig{
		Publisher: pubsub,
		Topics:    map[string]string{types.TopicCategoryCreated: "moderation.queue"},
	})
	require.NoError(t, err)

	event := types.CategoryCreatedEvent{
		CategoryID: uuid.New(),
		Group:      types.CategoryGroupSkill,
		Name:       "rust",
	}
	require.NoError(t, sink.Publish(ctx, types.TopicCategoryCreated, event))

	msg := receive(t, messages)
	require.Equal(t, types.TopicCategoryCreated, msg.Metadata.Get(MetadataTopic))

	var body types.CategoryCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &body))
	require.Equal(t, "rust", body.Name)
	require.Equal(t, event.CategoryID, body.CategoryID)
}

func TestWatermillSink_Validation(t *testing.T) {
	_, err := NewWatermillSink(WatermillConfig{})
	require.ErrorIs(t, err, ErrPublisherRequired)

	sink, err := NewWatermillSink(WatermillConfig{Publisher: newGoChannel(t)})
	require.NoError(t, err)
	require.ErrorIs(t, sink.Publish(context.Background(), "  ", nil), ErrTopicRequired)
	require.Error(t, sink.Publish(context.Background(), "topic", []string{"not", "an", "object"}))
}

func TestSanitizePayload_MasksEmail(t *testing.T) {
	source := map[string]any{"email": "grace@example.com", "name": "Grace"}
	out, err := SanitizePayload(DefaultMasker(), source)
	require.NoError(t, err)
	require.NotEqual(t, "grace@example.com", out["email"])
	require.Equal(t, "Grace", out["name"])
	require.Equal(t, "grace@example.com", source["email"], "source map is untouched")

	empty, err := SanitizePayload(nil, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

type stubSink struct {
	topics []string
	err    error
}

func (s *stubSink) Publish(_ context.Context, topic string, _ any) error {
	s.topics = append(s.topics, topic)
	return s.err
}

func TestFanOut_AttemptsEverySink(t *testing.T) {
	boom := errors.New("boom")
	first := &stubSink{err: boom}
	second := &stubSink{}

	fan := NewFanOut(first, nil, second)
	require.Equal(t, 2, fan.Len())

	err := fan.Publish(context.Background(), types.TopicProfileUpdated, map[string]any{})
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{types.TopicProfileUpdated}, first.topics)
	require.Equal(t, []string{types.TopicProfileUpdated}, second.topics)

	require.NoError(t, NewFanOut().Publish(context.Background(), "noop", nil))
}
