package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"matchtrip-be/internal/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchSendsJSON(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	recipient := uuid.New()

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var m Message
		if err := json.Unmarshal(val, &m); err != nil {
			return err
		}
		if m.TemplateCode != TemplateRefundCompleted || m.Phone != "+821012345678" {
			return errors.New("unexpected payload")
		}
		if m.Variables["amount"] != "₩90,000" {
			return errors.New("missing variables")
		}
		return nil
	})

	d := NewDispatcherWithProducer(producer, "alimtalk.outbound", logger.NewNopLogger())
	err := d.Dispatch(context.Background(), Message{
		RecipientID:  recipient,
		Phone:        "+821012345678",
		TemplateCode: TemplateRefundCompleted,
		Variables:    map[string]string{"amount": "₩90,000"},
	})
	require.NoError(t, err)
	require.NoError(t, d.Close())
}

func TestDispatchPropagatesProducerError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	d := NewDispatcherWithProducer(producer, "alimtalk.outbound", logger.NewNopLogger())
	err := d.Dispatch(context.Background(), Message{RecipientID: uuid.New(), Phone: "+82101", TemplateCode: TemplatePaymentPaid})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, d.Close())
}

func TestDispatchRequiresPhone(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	d := NewDispatcherWithProducer(producer, "alimtalk.outbound", logger.NewNopLogger())

	err := d.Dispatch(context.Background(), Message{RecipientID: uuid.New(), TemplateCode: TemplatePaymentPaid})
	assert.Error(t, err)
	require.NoError(t, d.Close())
}

func TestSaramaConfigIsIdempotent(t *testing.T) {
	c := NewSaramaConfig(KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.True(t, c.Producer.Idempotent)
	assert.Equal(t, 1, c.Net.MaxOpenRequests)
	assert.Equal(t, sarama.WaitForAll, c.Producer.RequiredAcks)
	assert.Equal(t, 3, c.Producer.Retry.Max)
	assert.NoError(t, c.Validate())
}
