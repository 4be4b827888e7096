package testutil

import (
	"context"

	"github.com/questx-lab/reactrole/pkg/errorx"
	"github.com/questx-lab/reactrole/pkg/pubsub"
)

// MockPublisher records every published pack by topic. Publish fails unless
// PublishFunc is set.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	Published map[string][]*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.Published == nil {
		m.Published = map[string][]*pubsub.Pack{}
	}
	m.Published[topic] = append(m.Published[topic], pack)

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return errorx.New(errorx.NotImplemented, "Not implemented")
}
