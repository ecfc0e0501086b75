package api

// Model is one entry of the model list. Every registered kernel is a model.
type Model struct {
	ID         string  `json:"id"`
	Object     string  `json:"object"`
	Created    int64   `json:"created"`
	OwnedBy    string  `json:"owned_by"`
	Permission []any   `json:"permission"`
	Root       string  `json:"root"`
	Parent     *string `json:"parent"`
}

// ModelList is the GET /v1/models response.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// CompletionRequest is the POST /v1/completions body. Other OpenAI fields are ignored.
type CompletionRequest struct {
	Model  *string `json:"model"`
	Prompt *string `json:"prompt"`
}

// ChatMessage is a single chat turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the POST /v1/chat/completions body.
type ChatCompletionRequest struct {
	Model    *string       `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// KernelExecutionRequest is the POST /v1/kernels/execute body.
type KernelExecutionRequest struct {
	Kernel *string        `json:"kernel"`
	Args   map[string]any `json:"args"`
}

// Usage reports whitespace token counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionChoice is the single choice of a text completion.
type CompletionChoice struct {
	Text         string `json:"text"`
	Index        int    `json:"index"`
	Logprobs     any    `json:"logprobs"`
	FinishReason string `json:"finish_reason"`
}

// CompletionResponse is the text completion envelope.
type CompletionResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
	Usage   Usage              `json:"usage"`
}

// ChatChoice is the single choice of a chat completion.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse is the chat completion envelope.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// KernelExecutionResponse is the direct execution envelope.
type KernelExecutionResponse struct {
	Kernel    string `json:"kernel"`
	Result    any    `json:"result"`
	Timestamp int64  `json:"timestamp"`
}
