package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	ID             ID         `json:"id,omitempty"`
	ConversationID ID         `json:"conversation_id,omitempty"`
	Role           Role       `json:"role,omitempty"`
	Content        string     `json:"content"`
	Model          string     `json:"model,omitempty"`
	CreatedAt      *Timestamp `json:"created_at,omitempty"`
}

// ChatReply is the answer of an unpersisted, direct-to-model chat call.
type ChatReply struct {
	Model    string `json:"model,omitempty"`
	Response string `json:"response"`
}
