package websocket

// room is the set of clients subscribed to one topic. Rooms are only touched
// with the hub lock held.
type room struct {
	name    string
	clients map[string]*Client // map[clientID] -> *Client
}

func newRoom(name string) *room {
	return &room{name: name, clients: make(map[string]*Client)}
}

func (r *room) add(c *Client) bool {
	if _, ok := r.clients[c.ID]; ok {
		return false
	}
	r.clients[c.ID] = c
	return true
}

func (r *room) remove(c *Client) {
	delete(r.clients, c.ID)
}

func (r *room) empty() bool {
	return len(r.clients) == 0
}
