package core

// Client is an event subscriber as seen by the core layer.
type Client struct {
	ID     string
	Events chan *Event
}

// NewClient constructs a subscriber with a buffered event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, 16),
	}
}
