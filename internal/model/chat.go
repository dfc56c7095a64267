package model

import (
	"strconv"
	"time"
)

// ChatMessage Firestore document under chats/{room}/messages
type ChatMessage struct {
	ID        string    `firestore:"-"`
	Message   string    `firestore:"message"`
	UserID    string    `firestore:"userId"`
	UserName  string    `firestore:"userName"`
	ClassCode string    `firestore:"class_code"`
	MediaURL  string    `firestore:"mediaUrl,omitempty"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

// ChatMessageFromData decodes a message document leniently. Missing or null
// fields stay zero and a numeric userId is rendered as its decimal string.
func ChatMessageFromData(id string, data map[string]interface{}) ChatMessage {
	m := ChatMessage{
		ID:        id,
		Message:   stringField(data["message"]),
		UserID:    stringField(data["userId"]),
		UserName:  stringField(data["userName"]),
		ClassCode: stringField(data["class_code"]),
		MediaURL:  stringField(data["mediaUrl"]),
	}
	if t, ok := data["createdAt"].(time.Time); ok {
		m.CreatedAt = t
	}
	return m
}

func stringField(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
