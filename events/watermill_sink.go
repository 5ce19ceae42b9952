package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-mentors/pkg/types"
)

// ErrPublisherRequired indicates the sink was built without a publisher.
var ErrPublisherRequired = errors.New("go-mentors: watermill publisher required")

// ErrTopicRequired indicates Publish was called with a blank topic.
var ErrTopicRequired = errors.New("go-mentors: topic required")

// MetadataTopic is the message metadata key holding the logical topic.
const MetadataTopic = "mentors_topic"

// WatermillConfig wires a WatermillSink.
type WatermillConfig struct {
	Publisher message.Publisher
	Masker    *masker.Masker
	// Topics remaps logical topics onto transport topics. Unmapped topics are
	// published as-is.
	Topics map[string]string
	Logger types.Logger
}

// WatermillSink publishes notifications to a watermill Publisher.
type WatermillSink struct {
	publisher message.Publisher
	masker    *masker.Masker
	topics    map[string]string
	logger    types.Logger
}

// NewWatermillSink validates the config and returns a sink.
func NewWatermillSink(cfg WatermillConfig) (*WatermillSink, error) {
	if cfg.Publisher == nil {
		return nil, ErrPublisherRequired
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	mask := cfg.Masker
	if mask == nil {
		mask = DefaultMasker()
	}
	topics := make(map[string]string, len(cfg.Topics))
	for from, to := range cfg.Topics {
		if strings.TrimSpace(to) != "" {
			topics[from] = to
		}
	}
	return &WatermillSink{
		publisher: cfg.Publisher,
		masker:    mask,
		topics:    topics,
		logger:    logger,
	}, nil
}

var _ types.EventSink = (*WatermillSink)(nil)

// Publish masks payload, encodes it as JSON and hands it to the publisher.
func (s *WatermillSink) Publish(ctx context.Context, topic string, payload any) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ErrTopicRequired
	}
	data, err := SanitizePayload(s.masker, payload)
	if err != nil {
		s.logger.Error("event payload sanitize failed", err, "topic", topic)
		return err
	}
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(MetadataTopic, topic)
	if ctx != nil {
		msg.SetContext(ctx)
	}

	target := s.resolve(topic)
	if err := s.publisher.Publish(target, msg); err != nil {
		s.logger.Error("event publish failed", err, "topic", target)
		return err
	}
	s.logger.Debug("event published", "topic", target, "message_id", msg.UUID)
	return nil
}

func (s *WatermillSink) resolve(topic string) string {
	if mapped, ok := s.topics[topic]; ok {
		return mapped
	}
	return topic
}
