package domain

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleAI   ChatRole = "ai"
)

const (
	ChatGreeting = "Hello! I'm Quantiva's AI assistant. I can help you analyze stocks, sectors, " +
		"market trends, and provide investment insights. What would you like to know?"
	ChatCannedReply = "Based on current market analysis, I can provide insights on that topic. " +
		"Let me analyze the latest data and trends for you..."
)

// ChatMessage is a single entry of a chat transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
