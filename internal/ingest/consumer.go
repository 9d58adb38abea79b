package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/openfell/telemetry-core/internal/infrastructure/config"
	"github.com/openfell/telemetry-core/internal/telemetry"
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultSubscribeTimeout  = 5 * time.Second
	defaultDisconnectQuiesce = 250 // milliseconds

	// handlerTimeout bounds how long a single message may hold the store.
	handlerTimeout = 5 * time.Second
)

// Store persists readings received over MQTT. Satisfied by
// telemetry.Service.
type Store interface {
	Create(ctx context.Context, r *telemetry.Reading) error
}

// Consumer subscribes to device reading topics and stores the payloads.
//
// All methods are safe for concurrent use. The subscription is restored
// automatically after a reconnect.
type Consumer struct {
	client pahomqtt.Client
	cfg    config.IngestConfig
	store  Store
	logger *slog.Logger

	connected bool
	connMu    sync.RWMutex
}

// Connect establishes a broker connection and subscribes to the reading
// topic. Reconnects use the paho client's exponential backoff; the
// subscription is re-established by the connect handler.
func Connect(cfg config.IngestConfig, store Store, logger *slog.Logger) (*Consumer, error) {
	c := &Consumer{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(time.Minute).
		SetOrderMatters(false)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.connMu.Lock()
		c.connected = false
		c.connMu.Unlock()
		c.logger.Warn("mqtt connection lost", "error", err)
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	if err := c.subscribe(); err != nil {
		c.client.Disconnect(defaultDisconnectQuiesce)
		return nil, err
	}

	return c, nil
}

// handleConnect restores the subscription after the initial connect and
// every reconnect.
func (c *Consumer) handleConnect() {
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	if err := c.subscribe(); err != nil {
		c.logger.Error("mqtt re-subscribe failed", "error", err)
	}
}

func (c *Consumer) subscribe() error {
	topic := readingTopic(c.cfg.TopicPrefix)
	token := c.client.Subscribe(topic, byte(c.cfg.QoS), c.handleMessage)
	if !token.WaitTimeout(defaultSubscribeTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultSubscribeTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	c.logger.Info("mqtt ingest subscribed", "topic", topic)
	return nil
}

// handleMessage decodes and stores a single published reading. Invalid
// payloads are logged and dropped; the broker delivery is acknowledged
// either way.
func (c *Consumer) handleMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("mqtt handler panic recovered",
				"topic", msg.Topic(),
				"panic", r,
			)
		}
	}()

	deviceID, err := deviceFromTopic(c.cfg.TopicPrefix, msg.Topic())
	if err != nil {
		c.logger.Warn("dropping reading on malformed topic",
			"topic", msg.Topic(),
			"error", err,
		)
		return
	}

	var reading telemetry.Reading
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		c.logger.Warn("dropping undecodable reading",
			"device_id", deviceID,
			"error", err,
		)
		return
	}
	// the topic is authoritative for the device
	reading.DeviceID = deviceID
	reading.ID = ""

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := c.store.Create(ctx, &reading); err != nil {
		c.logger.Warn("rejected mqtt reading",
			"device_id", deviceID,
			"error", err,
		)
		return
	}

	c.logger.Debug("stored mqtt reading",
		"reading_id", reading.ID,
		"device_id", deviceID,
	)
}

// IsConnected returns the last known connection state.
func (c *Consumer) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client.IsConnected()
}

// Close unsubscribes and disconnects from the broker.
func (c *Consumer) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		topic := readingTopic(c.cfg.TopicPrefix)
		token := c.client.Unsubscribe(topic)
		token.WaitTimeout(defaultSubscribeTimeout)
	}

	c.client.Disconnect(defaultDisconnectQuiesce)

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	return nil
}
