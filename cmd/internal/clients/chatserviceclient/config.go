package chatserviceclient

import "ollama-chat/config"

// FromConfig builds the client described by the chat_service section of app.
func FromConfig(app config.AppConfig) *Client {
	return New(Config{
		BaseURL:      app.ChatService.BaseURL,
		DefaultModel: app.DefaultModel,
		Timeout:      app.ChatService.Timeout,
	})
}
