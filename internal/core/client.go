package core

// Client is a connected bridge peer as seen by the core layer: the network
// collaborator feeding lobby events, or a UI listening for updates.
type Client struct {
	ID       string
	Name     string
	Commands chan *Command
	Events   chan *Event

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id, name string) *Client {
	if name == "" {
		name = id
	}
	return &Client{
		ID:       id,
		Name:     name,
		Commands: make(chan *Command, 32),
		Events:   make(chan *Event, 64),
		done:     make(chan struct{}),
	}
}
