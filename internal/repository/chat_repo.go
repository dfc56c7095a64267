package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"prezz/internal/model"
)

// ChatRepository class chat rooms
type ChatRepository interface {
	List(ctx context.Context, room string, limit int) ([]model.ChatMessage, error)
	Add(ctx context.Context, room string, msg *model.ChatMessage) error
}

type chatRepo struct {
	client *firestore.Client
}

// NewChatRepo creates a Firestore-backed ChatRepository
func NewChatRepo(client *firestore.Client) ChatRepository {
	return &chatRepo{client: client}
}

func (r *chatRepo) messages(room string) *firestore.CollectionRef {
	return r.client.Collection("chats").Doc(room).Collection("messages")
}

// List the newest limit messages, oldest first
func (r *chatRepo) List(ctx context.Context, room string, limit int) ([]model.ChatMessage, error) {
	iter := r.messages(room).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var out []model.ChatMessage
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, model.ChatMessageFromData(doc.Ref.ID, doc.Data()))
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Add stores msg and reads it back so CreatedAt carries the server timestamp
func (r *chatRepo) Add(ctx context.Context, room string, msg *model.ChatMessage) error {
	ref, _, err := r.messages(room).Add(ctx, msg)
	if err != nil {
		return err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return err
	}
	*msg = model.ChatMessageFromData(ref.ID, snap.Data())
	return nil
}
