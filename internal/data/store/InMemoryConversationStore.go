package store

import (
	"context"
	"errors"
	"sync"

	"github.com/clauselens/clauselens/internal/domain/commonModels"
)

type InMemoryConversationStore struct {
	mu            *sync.RWMutex
	conversations map[string]commonModels.Conversation
	messages      map[string][]commonModels.Message
	byUser        map[string][]string
}

func InitInMemoryConversationStore() *InMemoryConversationStore {
	return &InMemoryConversationStore{
		mu:            new(sync.RWMutex),
		conversations: make(map[string]commonModels.Conversation),
		messages:      make(map[string][]commonModels.Message),
		byUser:        make(map[string][]string),
	}
}

func (s *InMemoryConversationStore) CreateConversation(ctx context.Context, conv commonModels.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conv.Id] = conv
	s.byUser[conv.UserId] = append(s.byUser[conv.UserId], conv.Id)
	return nil
}

func (s *InMemoryConversationStore) GetConversation(ctx context.Context, id string) (commonModels.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, found := s.conversations[id]
	return conv, found
}

func (s *InMemoryConversationStore) ListConversations(ctx context.Context, userId string) ([]commonModels.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userId]
	conversations := make([]commonModels.Conversation, 0, len(ids))
	for _, id := range ids {
		if conv, found := s.conversations[id]; found {
			conversations = append(conversations, conv)
		}
	}
	return conversations, nil
}

func (s *InMemoryConversationStore) AppendMessage(ctx context.Context, msg commonModels.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, found := s.conversations[msg.ConversationId]
	if !found {
		return errors.New("unknown conversation id")
	}

	s.messages[msg.ConversationId] = append(s.messages[msg.ConversationId], msg)
	advanceConversation(&conv, msg)
	s.conversations[msg.ConversationId] = conv
	return nil
}

func (s *InMemoryConversationStore) GetMessages(ctx context.Context, conversationId string) ([]commonModels.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[conversationId]
	out := make([]commonModels.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *InMemoryConversationStore) GetRecentMessages(ctx context.Context, conversationId string, limit int) ([]commonModels.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[conversationId]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]commonModels.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
