package models

import "time"

// EventType is one recorded viewer action against a profile.
type EventType string

const (
	EventView          EventType = "view"
	EventPhoneClick    EventType = "phone_click"
	EventWhatsAppClick EventType = "whatsapp_click"
	EventTelegramClick EventType = "telegram_click"
)

func (e EventType) Valid() bool {
	switch e {
	case EventView, EventPhoneClick, EventWhatsAppClick, EventTelegramClick:
		return true
	}
	return false
}

// InteractionEvent is an append-only fact; rows are never updated or deleted.
type InteractionEvent struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ProfileID string    `bson:"profile_id" json:"profile_id"`
	EventType EventType `bson:"event_type" json:"event_type"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// DailyStats holds the counters for one calendar date.
type DailyStats struct {
	Date           string `json:"date"`
	Views          int64  `json:"views"`
	PhoneClicks    int64  `json:"phone_clicks"`
	WhatsAppClicks int64  `json:"whatsapp_clicks"`
	TelegramClicks int64  `json:"telegram_clicks"`
}

// ProfileStats is computed fresh on every request, never cached.
// DailyStats is ordered most recent date first.
type ProfileStats struct {
	TotalViews          int64        `json:"total_views"`
	TotalPhoneClicks    int64        `json:"total_phone_clicks"`
	TotalWhatsAppClicks int64        `json:"total_whatsapp_clicks"`
	TotalTelegramClicks int64        `json:"total_telegram_clicks"`
	DailyStats          []DailyStats `json:"daily_stats"`
}

// MediaReference points at a stored blob. The profile-editing flow owns
// attaching it to a profile's media list; this service never does.
type MediaReference struct {
	UserID      string    `json:"user_id"`
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Type        string    `json:"type"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
