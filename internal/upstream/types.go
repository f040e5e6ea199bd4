package upstream

// ChatMessage — одно сообщение диалога для LLM-шлюза.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ImageContent — мультимодальная часть сообщения: текст плюс ссылка
// на изображение товара.
type ImageContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

// ResponseFormat просит модель вернуть строго валидный JSON.
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatRequest — тело запроса chat/completions.
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatResponse — тело ответа chat/completions.
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}
