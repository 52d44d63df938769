package leaderboardevents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/alexandrevicenzi/go-sse"
	"github.com/cuwais/cuwais-portal/app/eventbus"
	leaderboardservice "github.com/cuwais/cuwais-portal/app/modules/leaderboard/application"
	leaderboarddomain "github.com/cuwais/cuwais-portal/app/modules/leaderboard/domain"
	leaderboarddisplay "github.com/cuwais/cuwais-portal/app/modules/leaderboard/infrastructure/display"
)

const (
	// SlotsTopic carries one SlotEvent per display operation.
	SlotsTopic = "leaderboard.slots"
	// StreamPath is the SSE channel the dashboard subscribes to.
	StreamPath = "/events/leaderboard"
)

// Slot event types.
const (
	EventRemove   = "remove"
	EventCreate   = "create"
	EventPopulate = "populate"
)

// SlotEvent is the wire form of a display operation.
type SlotEvent struct {
	Type     string `json:"type"`
	Index    int    `json:"index"`
	Position string `json:"position,omitempty"`
	Name     string `json:"name,omitempty"`
	Score    string `json:"score,omitempty"`
	Role     string `json:"role,omitempty"`
	Record   string `json:"record,omitempty"`
}

// Publisher is a Display that publishes every slot operation to the bus.
type Publisher struct {
	bus    eventbus.EventBus
	logger *slog.Logger
}

func NewPublisher(bus eventbus.EventBus, logger *slog.Logger) *Publisher {
	return &Publisher{bus: bus, logger: logger}
}

func (p *Publisher) RemoveSlot(index int) {
	p.publish(SlotEvent{Type: EventRemove, Index: index})
}

func (p *Publisher) CreateSlot(index int) {
	p.publish(SlotEvent{Type: EventCreate, Index: index})
}

func (p *Publisher) PopulateSlot(slot leaderboarddomain.Slot) {
	row := leaderboarddisplay.RowFor(slot)
	p.publish(SlotEvent{
		Type:     EventPopulate,
		Index:    slot.Index,
		Position: row.Position,
		Name:     row.Name,
		Score:    row.Score,
		Role:     string(row.Role),
		Record:   row.Record(),
	})
}

// Display methods cannot fail, so publish errors are logged and dropped.
func (p *Publisher) publish(ev SlotEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("Failed to marshal slot event", slog.Any("error", err))
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("type", ev.Type)
	if err := p.bus.Publish(context.Background(), SlotsTopic, msg); err != nil {
		p.logger.Warn("Failed to publish slot event",
			slog.String("type", ev.Type),
			slog.Int("index", ev.Index),
			slog.Any("error", err),
		)
	}
}

var _ leaderboardservice.Display = (*Publisher)(nil)

// Sender is the part of the SSE server the forwarder writes to.
type Sender interface {
	SendMessage(channel string, msg *sse.Message)
}

// Forward relays slot events from the bus to SSE clients until ctx is
// cancelled.
func Forward(ctx context.Context, bus eventbus.EventBus, sender Sender) error {
	err := bus.Subscribe(ctx, SlotsTopic, func(_ context.Context, msg *message.Message) error {
		var ev SlotEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			// A bad payload is never going to decode; ack it away.
			return nil
		}
		sender.SendMessage(StreamPath, sse.NewMessage(msg.UUID, string(msg.Payload), ev.Type))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to forward leaderboard events: %w", err)
	}
	return nil
}
