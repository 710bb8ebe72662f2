package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/niksmo/custom-tee/pkg/schema"
)

var _ port.SubscriberEmitter = (*SubscribersEmitter)(nil)

// A subscriberCodec used for serde [schema.SubscriberV1]
type subscriberCodec struct {
	serde Serde
}

func (c subscriberCodec) Encode(v any) ([]byte, error) {
	const op = "subscriberCodec.Encode"
	if _, ok := v.(schema.SubscriberV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c subscriberCodec) Decode(data []byte) (any, error) {
	const op = "subscriberCodec.Decode"
	var s schema.SubscriberV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

type gokaEmitter interface {
	EmitSync(key string, msg any) error
	Finish() error
}

// A SubscribersEmitterConfig used for setup [SubscribersEmitter].
//
// TLSConfig is optional, other fields are required.
type SubscribersEmitterConfig struct {
	SeedBrokers []string
	Topic       string
	Serde       Serde
	TLSConfig   *tls.Config
}

// A SubscribersEmitter emits newsletter signups keyed by email.
type SubscribersEmitter struct {
	ge gokaEmitter
}

func NewSubscribersEmitter(
	config SubscribersEmitterConfig,
) (SubscribersEmitter, error) {
	const op = "NewSubscribersEmitter"

	if len(config.SeedBrokers) == 0 || config.Topic == "" {
		return SubscribersEmitter{}, opErr(ErrTooFewOpts, op)
	}
	if config.Serde == nil {
		return SubscribersEmitter{}, opErr(errors.New("serde is nil"), op)
	}

	saramaConfig := goka.DefaultConfig()
	if config.TLSConfig != nil {
		saramaConfig.Net.TLS.Enable = true
		saramaConfig.Net.TLS.Config = config.TLSConfig
	}

	ge, err := goka.NewEmitter(
		config.SeedBrokers,
		goka.Stream(config.Topic),
		subscriberCodec{config.Serde},
		goka.WithEmitterProducerBuilder(
			goka.ProducerBuilderWithConfig(saramaConfig),
		),
	)
	if err != nil {
		return SubscribersEmitter{}, opErr(err, op)
	}
	return SubscribersEmitter{ge}, nil
}

func (e SubscribersEmitter) EmitSubscriber(
	ctx context.Context, v domain.Subscriber,
) error {
	const op = "SubscribersEmitter.EmitSubscriber"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	if err := e.ge.EmitSync(v.Email, subscriberToSchemaV1(v)); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (e SubscribersEmitter) Close() {
	const op = "SubscribersEmitter.Close"
	log := slog.With("op", op)

	log.Info("closing emitter...")
	if err := e.ge.Finish(); err != nil {
		log.Error("failed to finish gracefully", "err", err)
		return
	}
	log.Info("emitter is closed")
}
