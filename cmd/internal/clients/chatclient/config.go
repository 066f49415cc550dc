package chatclient

import "ollama-chat/config"

// FromConfig builds the client described by the api section of app.
func FromConfig(app config.AppConfig) (*Client, error) {
	return New(Config{
		BaseURL:      app.API.BaseURL,
		Variant:      Variant(app.API.Variant),
		BasePath:     app.API.BasePath,
		DefaultModel: app.DefaultModel,
		Timeout:      app.API.Timeout,
	})
}
