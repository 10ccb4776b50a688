package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/microwave-oven/internal/logger"
	"github.com/sweeney/microwave-oven/internal/oven"
)

const (
	connectTimeout  = 10 * time.Second
	publishTimeout  = 5 * time.Second
	retryInterval   = 5 * time.Second
	disconnectQuiet = 1000 // milliseconds
)

var errPublishTimeout = errors.New("publish timeout")

// Options configures a RealPublisher.
type Options struct {
	Broker   string
	ClientID string
	Buffer   int // messages kept while disconnected
	Log      *logger.Logger
}

// RealPublisher publishes to a broker. While the connection is down,
// messages go to a bounded buffer and are replayed in order on reconnect.
type RealPublisher struct {
	client paho.Client
	log    *logger.Logger

	mu        sync.Mutex
	buffer    *ringBuffer
	connected bool // a connection has been made at least once
}

// NewRealPublisher connects to the broker. If the broker is unreachable
// within the connect timeout the publisher keeps retrying in the
// background and buffers until it succeeds.
func NewRealPublisher(o Options) (*RealPublisher, error) {
	p := newPublisher(o.Buffer, o.Log)

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "OFFLINE",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(retryInterval).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(p.onConnectionLost)

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		p.log.Warnw("broker not reachable yet, buffering", "broker", o.Broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

func newPublisher(buffer int, log *logger.Logger) *RealPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &RealPublisher{
		log:    log,
		buffer: newRingBuffer(buffer, log),
	}
}

// Publish sends an oven event at QoS 0.
func (p *RealPublisher) Publish(event oven.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	if err := p.send(bufferedMsg{topic: Topic, payload: payload}); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PublishSystem sends a lifecycle event at QoS 1.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	msg := bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained}
	if err := p.send(msg); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// IsConnected reports whether the connection is currently open.
func (p *RealPublisher) IsConnected() bool {
	return p.client != nil && p.client.IsConnectionOpen()
}

// Buffered returns the number of messages awaiting replay.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer.len()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	if n := p.Buffered(); n > 0 {
		p.log.Warnw("closing with unsent messages", "count", n)
	}
	p.client.Disconnect(disconnectQuiet)
	return nil
}

// send publishes msg, or buffers it when offline. A message that times out
// is buffered too so it is replayed after the reconnect.
func (p *RealPublisher) send(msg bufferedMsg) error {
	p.mu.Lock()
	if !p.client.IsConnectionOpen() {
		p.buffer.push(msg)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		p.mu.Lock()
		p.buffer.push(msg)
		p.mu.Unlock()
		return errPublishTimeout
	}
	return token.Error()
}

func (p *RealPublisher) onConnect(c paho.Client) {
	p.mu.Lock()
	pending := p.buffer.drainAll()
	reconnect := p.connected
	p.connected = true
	p.mu.Unlock()

	p.log.Infow("connected", "replay", len(pending))
	for _, msg := range pending {
		token := c.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		if !token.WaitTimeout(publishTimeout) {
			p.log.Warnw("replay timeout", "topic", msg.topic)
			continue
		}
		if err := token.Error(); err != nil {
			p.log.Warnw("replay failed", "topic", msg.topic, "err", err)
		}
	}

	if !reconnect {
		return
	}
	payload, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"})
	if err != nil {
		p.log.Errorw("format reconnected payload", "err", err)
		return
	}
	c.Publish(TopicSystem, 1, false, payload)
}

func (p *RealPublisher) onConnectionLost(_ paho.Client, err error) {
	p.log.Warnw("connection lost", "err", err)
}
