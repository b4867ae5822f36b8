package client

// BotData is the server-supplied bot descriptor, fetched once at widget load
// and read-only thereafter.
type BotData struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SystemPrompt string  `json:"system_prompt"`
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`

	AvatarImageURL  string `json:"avatar_image_url"`
	GreetingMessage string `json:"greeting_message"`

	// Presentation colors; empty values fall back to the theme palette.
	ChatWindowBackgroundColor  string `json:"chat_window_background_color"`
	UserMessageBackgroundColor string `json:"user_message_background_color"`
	ChatbotThinkingDotsColor   string `json:"chatbot_thinking_dots_color"`
	SendMessageButtonColor     string `json:"send_message_button_color"`
}

// QAPair is a few-shot example appended to the system prompt.
type QAPair struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BotInformation is the response of GET /botInformation/{bot_id}.
type BotInformation struct {
	Bot     BotData
	QAPairs []QAPair
}

// botInformationResponse is the wire envelope for bot information.
type botInformationResponse struct {
	Success bool     `json:"success"`
	Bot     BotData  `json:"bot"`
	QAPairs []QAPair `json:"qa_pairs"`
	Message string   `json:"message"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	BotID          string  `json:"bot_id"`
	BotName        string  `json:"bot_name"`
	SystemPrompt   string  `json:"system_prompt"`
	Message        string  `json:"message"`
	Model          string  `json:"model"`
	Temperature    float64 `json:"temperature"`
	ConversationID string  `json:"conversation_id,omitempty"`
	CurrentMsg     string  `json:"current_msg"`
}

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

// chatErrorBody is the error envelope the chat API returns on failures.
// Detail may be a plain string or a structured value.
type chatErrorBody struct {
	Detail any `json:"detail"`
}
