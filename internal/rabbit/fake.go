package rabbit

// Published is one recorded publish call.
type Published struct {
	RoutingKey string
	Body       any
}

// FakePublisher records publishes for tests.
type FakePublisher struct {
	Events       []Published
	PublishError error
	Connected    bool
	Closed       bool
}

func (f *FakePublisher) Publish(routingKey string, body any) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Events = append(f.Events, Published{RoutingKey: routingKey, Body: body})
	return nil
}

func (f *FakePublisher) IsConnected() bool { return f.Connected }

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}
