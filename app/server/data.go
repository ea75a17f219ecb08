package server

// Inbound envelope of the WhatsApp Cloud API webhook. Only the fields the
// relay reads are modelled.
type webhookPayload struct {
	Entry []entry `json:"entry"`
}

type entry struct {
	Changes []change `json:"changes"`
}

type change struct {
	Value changeValue `json:"value"`
}

type changeValue struct {
	Messages []inboundMessage `json:"messages"`
}

type inboundMessage struct {
	From string       `json:"from"`
	ID   string       `json:"id"`
	Type string       `json:"type"`
	Text *messageText `json:"text"`
}

type messageText struct {
	Body string `json:"body"`
}
