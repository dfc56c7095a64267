package dto

// ChatMessage GET /chat/messages item
type ChatMessage struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	ClassCode string `json:"class_code"`
	MediaURL  string `json:"media_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

// SendMessageRequest POST /chat/messages
type SendMessageRequest struct {
	Message  string `json:"message"   binding:"max=2000"`
	MediaURL string `json:"media_url" binding:"omitempty,url"`
}
