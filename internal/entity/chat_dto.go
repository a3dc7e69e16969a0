package entity

type SendMessageRequest struct {
	Message string `json:"message"`
}

// ChatExchange is a persisted user message and the bot reply to it
type ChatExchange struct {
	UserMessage *ChatMessage `json:"user_message"`
	BotMessage  *ChatMessage `json:"bot_message"`
}

type ChatHistoryResponse struct {
	Messages []*ChatMessage `json:"messages"`
}

// Realtime channel events
const (
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventError          = "error"
)

// SocketEnvelope frames every event on the realtime channel
type SocketEnvelope[T any] struct {
	Event string `json:"event"`
	Data  T      `json:"data"`
}

type SocketSendMessage struct {
	Message string `json:"message"`
}

type SocketReceiveMessage struct {
	Message string `json:"message"`
	IsBot   bool   `json:"is_bot"`
}

type SocketError struct {
	Message string `json:"message"`
}
