package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
)

type MessageType string

const (
	TypeCalendarChanged     MessageType = "calendar.changed"
	TypeHolidaySyncFinished MessageType = "holidays.sync_finished"
)

type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

func NewMessage(t MessageType, payload any) Message {
	return Message{
		Type:      t,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

type HolidaySyncPayload struct {
	Received int    `json:"received"`
	Kept     int    `json:"kept"`
	Upserted int64  `json:"upserted"`
	Error    string `json:"error,omitempty"`
}

// Broadcaster turns domain events into hub messages.
type Broadcaster struct {
	hub *Hub
}

func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func (b *Broadcaster) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("realtime: marshal %s: %v", msg.Type, err)
		return
	}
	b.hub.Broadcast(data)
}

// CalendarChanged implements calendar.Notifier.
func (b *Broadcaster) CalendarChanged(_ context.Context, change calendar.Change) {
	b.send(NewMessage(TypeCalendarChanged, change))
}

func (b *Broadcaster) HolidaySyncFinished(p HolidaySyncPayload) {
	b.send(NewMessage(TypeHolidaySyncFinished, p))
}

var _ calendar.Notifier = (*Broadcaster)(nil)
