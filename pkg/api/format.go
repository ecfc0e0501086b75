package api

import "strings"

// CountTokens counts whitespace-separated fields.
func CountTokens(s string) int {
	return len(strings.Fields(s))
}

// NewModelList builds the model list for the given kernel names.
func NewModelList(names []string, created int64, ownedBy string) *ModelList {
	data := make([]Model, 0, len(names))
	for _, name := range names {
		data = append(data, Model{
			ID:         name,
			Object:     "model",
			Created:    created,
			OwnedBy:    ownedBy,
			Permission: []any{},
			Root:       name,
		})
	}
	return &ModelList{Object: "list", Data: data}
}

// NewCompletion wraps kernel output in a text completion envelope.
func NewCompletion(id string, created int64, model, prompt, text string) *CompletionResponse {
	promptTokens := CountTokens(prompt)
	completionTokens := CountTokens(text)
	return &CompletionResponse{
		ID:      "cmpl-" + id,
		Object:  "text_completion",
		Created: created,
		Model:   model,
		Choices: []CompletionChoice{{Text: text, Index: 0, FinishReason: "stop"}},
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}
}

// NewChatCompletion wraps kernel output in a chat completion envelope. Prompt
// tokens are counted over every message, not only the one sent to the kernel.
func NewChatCompletion(id string, created int64, model string, messages []ChatMessage, content string) *ChatCompletionResponse {
	promptTokens := 0
	for _, m := range messages {
		promptTokens += CountTokens(m.Content)
	}
	completionTokens := CountTokens(content)
	return &ChatCompletionResponse{
		ID:      "chatcmpl-" + id,
		Object:  "chat.completion",
		Created: created,
		Model:   model,
		Choices: []ChatChoice{{
			Index:        0,
			Message:      ChatMessage{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}
}

// LastUserContent returns the content of the last "user" message, or "".
func LastUserContent(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}
