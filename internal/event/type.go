package event

const QuoteQueue string = "quote_events"

type QuoteEventType string

const (
	QuoteCreated QuoteEventType = "quote.created"
	QuoteFailed  QuoteEventType = "quote.failed"
)

type QuoteEvent struct {
	ID         string         `json:"id"`
	EventType  QuoteEventType `json:"event_type"`
	QuoteID    string         `json:"quote_id"`
	FieldID    string         `json:"field_id,omitempty"`
	Crop       string         `json:"crop"`
	Zone       string         `json:"zone"`
	Additional map[string]any `json:"additional,omitempty"`
}
