//go:build integration

package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"medid/internal/audit"
	"medid/internal/platform/kafka"
	"medid/pkg/testutil/containers"
)

func TestAuditRecordsReachTopic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rp := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	const topic = "medid.audit.test"
	producer, err := kafka.NewProducer(ctx, rp.Brokers, topic)
	require.NoError(t, err)
	defer producer.Close()

	require.NoError(t, kafka.EnsureTopic(ctx, producer, topic, 1, 1))
	require.NoError(t, kafka.EnsureTopic(ctx, producer, topic, 1, 1), "second call is a no-op")

	sink := audit.NewKafkaSink(producer, topic)
	require.NoError(t, sink.Write(ctx, audit.Event{Action: audit.EventLogout, Category: audit.CategorySecurity}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)
	assert.Contains(t, string(records[0].Value), `"action":"logout"`)
}
