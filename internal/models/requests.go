package models

// GenerateBlogRequest — тело запроса генерации статьи.
// Поля, кроме topic, опциональны и передаются workflow как есть.
type GenerateBlogRequest struct {
	Topic    string `json:"topic" validate:"required"`
	Length   string `json:"length"`
	Tone     string `json:"tone"`
	Keywords string `json:"keywords"`
}

// GenerateCaptionsRequest — тело запроса генерации подписей для соцсетей.
type GenerateCaptionsRequest struct {
	Topic     string   `json:"topic" validate:"required"`
	Platforms []string `json:"platforms" validate:"required,min=1"`
	Tone      string   `json:"tone"`
	Hashtags  bool     `json:"hashtags"`
	Length    string   `json:"length"`
	Image     string   `json:"image"`
}

// GenerateEmailRequest — тело запроса генерации email-кампании.
type GenerateEmailRequest struct {
	Subject   string `json:"subject" validate:"required"`
	Purpose   string `json:"purpose"`
	Audience  string `json:"audience"`
	Tone      string `json:"tone"`
	KeyPoints string `json:"keyPoints"`
	CTA       string `json:"cta"`
	Length    string `json:"length"`
	ImageURL  string `json:"imageUrl"`
}

// GenerateProductRequest — тело запроса генерации описания товара.
type GenerateProductRequest struct {
	ProductName    string `json:"productName" validate:"required"`
	Category       string `json:"category"`
	Features       string `json:"features"`
	TargetAudience string `json:"targetAudience"`
	Tone           string `json:"tone"`
	Length         string `json:"length"`
	ImageURL       string `json:"imageUrl"`
}

// UseToolRequest — тело запроса явного списания одной генерации.
type UseToolRequest struct {
	ToolType string `json:"tool_type" validate:"required"`
}
