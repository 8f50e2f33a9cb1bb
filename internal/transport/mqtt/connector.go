package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	"github.com/google/uuid"

	"github.com/oshokin/alarm-panel/internal/config"
	"github.com/oshokin/alarm-panel/internal/domain/alarm"
	"github.com/oshokin/alarm-panel/internal/domain/event"
	"github.com/oshokin/alarm-panel/internal/feed"
	"github.com/oshokin/alarm-panel/internal/logger"
)

const (
	eventsTopic = "events"
	stateTopic  = "state"
	zoneTopic   = "zone"

	// clientIDPrefix is used for generated client identifiers.
	clientIDPrefix = "alarm-monitor-"
)

// Handler receives every decoded event read from the broker.
type Handler func(ctx context.Context, ev event.Event)

// connection is the part of autopaho.ConnectionManager the connector uses.
type connection interface {
	AwaitConnection(ctx context.Context) error
	Publish(ctx context.Context, p *paho.Publish) (*paho.PublishResponse, error)
	Disconnect(ctx context.Context) error
}

// dialFunc starts a connection manager that runs until ctx is canceled.
type dialFunc func(ctx context.Context, cfg autopaho.ClientConfig) (connection, error)

// dialBroker starts an autopaho connection manager.
func dialBroker(ctx context.Context, cfg autopaho.ClientConfig) (connection, error) {
	cm, err := autopaho.NewConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return cm, nil
}

// Connector maintains the broker connection.
type Connector struct {
	// ctx carries the logger used by broker callbacks.
	ctx context.Context //nolint:containedctx // Callbacks are invoked by paho without a context.
	// settings are the validated MQTT settings.
	settings config.MQTT
	// timeout bounds each publish call and the wait for the first connection.
	timeout time.Duration
	// handler receives decoded events.
	handler Handler

	clientConfig autopaho.ClientConfig
	dial         dialFunc

	// mu guards conn and stop, conn is read from paho callback goroutines.
	mu   sync.RWMutex
	conn connection
	// stop cancels the context the connection manager runs with.
	stop context.CancelFunc
}

var (
	// errNotConnected is returned when publishing before Open.
	errNotConnected = errors.New("mqtt connection is not open")
	// errHandlerRequired is returned when no event handler is provided.
	errHandlerRequired = errors.New("event handler must be provided")
)

// stateMessage is the payload published on the state topic.
type stateMessage struct {
	State string `json:"state"`
	Mode  string `json:"mode,omitempty"`
}

// zoneMessage is the payload published on a zone topic.
type zoneMessage struct {
	Zone      int  `json:"zone"`
	Triggered bool `json:"triggered"`
}

// NewConnector prepares a connector for the broker in settings.
// Events received on the events topic are passed to handler.
func NewConnector(ctx context.Context, settings config.MQTT, timeout time.Duration, handler Handler) (*Connector, error) {
	if handler == nil {
		return nil, errHandlerRequired
	}

	brokerURL, err := url.Parse(settings.BrokerURL)
	if err != nil {
		return nil, fmt.Errorf("parse broker url: %w", err)
	}

	if settings.ClientID == "" {
		settings.ClientID = clientIDPrefix + uuid.NewString()
	}

	c := &Connector{
		ctx:      logger.WithKV(ctx, "client_id", settings.ClientID),
		settings: settings,
		timeout:  timeout,
		handler:  handler,
		dial:     dialBroker,
	}

	//nolint:exhaustruct // Remaining options keep paho defaults.
	c.clientConfig = autopaho.ClientConfig{
		ServerUrls:                    []*url.URL{brokerURL},
		KeepAlive:                     settings.KeepAlive,
		CleanStartOnInitialConnection: true,
		OnConnectionUp:                c.onConnectionUp,
		OnConnectError: func(err error) {
			logger.WarnKV(c.ctx, "MQTT connection attempt failed", "error", err)
		},
		ClientConfig: paho.ClientConfig{
			ClientID:          settings.ClientID,
			OnPublishReceived: []func(paho.PublishReceived) (bool, error){c.onPublishReceived},
			OnClientError: func(err error) {
				logger.ErrorKV(c.ctx, "MQTT client error", "error", err)
			},
			OnServerDisconnect: func(d *paho.Disconnect) {
				if d.Properties != nil {
					logger.WarnKV(c.ctx, "MQTT server requested disconnect", "reason", d.Properties.ReasonString)
				} else {
					logger.WarnKV(c.ctx, "MQTT server requested disconnect", "reason_code", d.ReasonCode)
				}
			},
		},
	}

	return c, nil
}

// Open connects to the broker and waits for the first connection, at most
// the configured timeout. On failure the connection manager is shut down.
func (c *Connector) Open(ctx context.Context) error {
	connCtx, stop := context.WithCancel(ctx)

	conn, err := c.dial(connCtx, c.clientConfig)
	if err != nil {
		stop()

		return fmt.Errorf("create mqtt connection: %w", err)
	}

	// Events subscribed in onConnectionUp may be handled, and their changes
	// published, before AwaitConnection returns.
	c.setConnection(conn, stop)

	awaitCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc

		awaitCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err = conn.AwaitConnection(awaitCtx); err != nil {
		c.setConnection(nil, nil)
		stop()

		return fmt.Errorf("await mqtt connection: %w", err)
	}

	return nil
}

// Close disconnects from the broker.
func (c *Connector) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	conn, stop := c.conn, c.stop
	c.conn, c.stop = nil, nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	defer stop()

	if err := conn.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mqtt: %w", err)
	}

	return nil
}

// PublishState publishes the arming state and mode as a retained message.
func (c *Connector) PublishState(ctx context.Context, state alarm.ArmingState, mode alarm.ArmingMode) error {
	packet, err := c.statePacket(state, mode)
	if err != nil {
		return err
	}

	return c.publish(ctx, packet)
}

// PublishZone publishes a zone flag as a retained message.
func (c *Connector) PublishZone(ctx context.Context, zoneID int, triggered bool) error {
	packet, err := c.zonePacket(zoneID, triggered)
	if err != nil {
		return err
	}

	return c.publish(ctx, packet)
}

// EventsTopic is the topic events are read from.
func (c *Connector) EventsTopic() string {
	return c.settings.TopicPrefix + "/" + eventsTopic
}

// StateTopic is the topic the arming state is published on.
func (c *Connector) StateTopic() string {
	return c.settings.TopicPrefix + "/" + stateTopic
}

// ZoneTopic is the topic a zone flag is published on.
func (c *Connector) ZoneTopic(zoneID int) string {
	return c.settings.TopicPrefix + "/" + zoneTopic + "/" + strconv.Itoa(zoneID)
}

// statePacket builds the retained state message.
func (c *Connector) statePacket(state alarm.ArmingState, mode alarm.ArmingMode) (*paho.Publish, error) {
	payload, err := json.Marshal(stateMessage{State: state.String(), Mode: mode.String()})
	if err != nil {
		return nil, fmt.Errorf("encode state message: %w", err)
	}

	return c.retained(c.StateTopic(), payload), nil
}

// zonePacket builds the retained message of one zone.
func (c *Connector) zonePacket(zoneID int, triggered bool) (*paho.Publish, error) {
	payload, err := json.Marshal(zoneMessage{Zone: zoneID, Triggered: triggered})
	if err != nil {
		return nil, fmt.Errorf("encode zone message: %w", err)
	}

	return c.retained(c.ZoneTopic(zoneID), payload), nil
}

func (c *Connector) retained(topic string, payload []byte) *paho.Publish {
	//nolint:exhaustruct // Properties are not used.
	return &paho.Publish{
		QoS:     c.settings.QoS,
		Retain:  true,
		Topic:   topic,
		Payload: payload,
	}
}

func (c *Connector) publish(ctx context.Context, packet *paho.Publish) error {
	conn := c.current()
	if conn == nil {
		return errNotConnected
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if _, err := conn.Publish(ctx, packet); err != nil {
		return fmt.Errorf("publish %s: %w", packet.Topic, err)
	}

	return nil
}

func (c *Connector) current() connection { //nolint:ireturn // Internal seam.
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.conn
}

func (c *Connector) setConnection(conn connection, stop context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn, c.stop = conn, stop
}

// onConnectionUp subscribes to the events topic on every (re)connection.
func (c *Connector) onConnectionUp(cm *autopaho.ConnectionManager, _ *paho.Connack) {
	logger.InfoKV(c.ctx, "MQTT connection up", "topic", c.EventsTopic())

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	_, err := cm.Subscribe(ctx, &paho.Subscribe{
		Subscriptions: []paho.SubscribeOptions{
			{Topic: c.EventsTopic(), QoS: c.settings.QoS},
		},
	})
	if err != nil {
		logger.ErrorKV(c.ctx, "Failed to subscribe to events", "topic", c.EventsTopic(), "error", err)
	}
}

// onPublishReceived decodes an event record and hands it to the handler.
// Malformed records are logged and dropped.
func (c *Connector) onPublishReceived(received paho.PublishReceived) (bool, error) {
	packet := received.Packet
	if packet == nil || packet.Topic != c.EventsTopic() {
		return false, nil
	}

	ev, err := feed.DecodeJSON(packet.Payload)
	if err != nil {
		logger.WarnKV(c.ctx, "Dropping malformed event", "topic", packet.Topic, "error", err)

		return true, nil
	}

	c.handler(c.ctx, ev)

	return true, nil
}
