package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Model is a language-model backend option.
type Model struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts a bare string as well as an object with a name.
func (m *Model) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &m.Name)
	}
	var obj struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("models: decode model: %w", err)
	}
	m.Name = obj.Name
	if m.Name == "" {
		m.Name = obj.Model
	}
	return nil
}

// ModelList decodes both a bare JSON array and the {"models": [...]}
// envelope used by Ollama's tag listing.
type ModelList []Model

func (l *ModelList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []Model
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var env struct {
		Models []Model `json:"models"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("models: decode model list: %w", err)
	}
	*l = env.Models
	return nil
}

// Names returns the model names in listing order.
func (l ModelList) Names() []string {
	names := make([]string, 0, len(l))
	for _, m := range l {
		names = append(names, m.Name)
	}
	return names
}
