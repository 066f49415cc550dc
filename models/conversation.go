package models

// Conversation is a titled thread of messages as returned by the
// conversation service. Messages is only filled when the server embeds them.
type Conversation struct {
	ID        ID         `json:"id"`
	Title     string     `json:"title"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
	UpdatedAt *Timestamp `json:"updated_at,omitempty"`
	Messages  []Message  `json:"messages,omitempty"`
}

// ConversationUpdate is the body of a conversation update. Nil fields are
// omitted, so a partial update only sends what is set.
type ConversationUpdate struct {
	Title *string `json:"title,omitempty"`
}
