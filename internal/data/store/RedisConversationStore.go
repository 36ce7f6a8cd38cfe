package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/data/redisStore"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
	"github.com/clauselens/clauselens/pkg/logger_i"
)

const (
	conversationKeyPrefix = "conv:"
	messagesKeyPrefix     = "msgs:"
	userIndexPrefix       = "user:"
	userIndexSuffix       = ":convs"
)

type RedisConversationStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisConversationStore(ctx context.Context) *RedisConversationStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisConversationStore)
	if backing == nil {
		return nil
	}
	return &RedisConversationStore{
		store:  backing,
		logger: logger_i.NewLogger("ConversationStore"),
	}
}

func conversationKey(id string) string { return conversationKeyPrefix + id }
func messagesKey(convId string) string { return messagesKeyPrefix + convId }
func userIndexKey(userId string) string { return userIndexPrefix + userId + userIndexSuffix }

func (s *RedisConversationStore) CreateConversation(ctx context.Context, conv commonModels.Conversation) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "conversation Id", conv.Id)

	if err := s.saveConversation(ctx, conv); err != nil {
		log.Error("error creating conversation", "error", err)
		return err
	}

	indexKey := userIndexKey(conv.UserId)
	if err := s.store.ListPush(ctx, indexKey, conv.Id); err != nil {
		log.Error("error indexing conversation for user", "error", err)
		return err
	}
	if err := s.store.Expire(ctx, indexKey, config.RedisConversationStoreTTL); err != nil {
		log.Warn("could not refresh user index ttl", "error", err)
	}

	log.Debug("conversation created")
	return nil
}

func (s *RedisConversationStore) saveConversation(ctx context.Context, conv commonModels.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, conversationKey(conv.Id), data, config.RedisConversationStoreTTL)
}

func (s *RedisConversationStore) GetConversation(ctx context.Context, id string) (commonModels.Conversation, bool) {
	var conv commonModels.Conversation

	val, err := s.store.Get(ctx, conversationKey(id))
	if s.store.IsNil(err) {
		return conv, false
	} else if err != nil {
		s.logger.Error("error getting conversation", "conversation Id", id, "error", err)
		return conv, false
	}

	if err := json.Unmarshal([]byte(val), &conv); err != nil {
		return conv, false
	}
	return conv, true
}

func (s *RedisConversationStore) ListConversations(ctx context.Context, userId string) ([]commonModels.Conversation, error) {
	ids, err := s.store.ListGetAll(ctx, userIndexKey(userId))
	if err != nil {
		return nil, err
	}

	conversations := make([]commonModels.Conversation, 0, len(ids))
	for _, id := range ids {
		// Expired conversation records are skipped; the index outlives them.
		if conv, found := s.GetConversation(ctx, id); found {
			conversations = append(conversations, conv)
		}
	}
	return conversations, nil
}

// AppendMessage persists the message and rolls the conversation record
// forward: bump message_count, refresh updated_at, and derive the title
// from the first user message.
func (s *RedisConversationStore) AppendMessage(ctx context.Context, msg commonModels.Message) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "conversation Id", msg.ConversationId)

	conv, found := s.GetConversation(ctx, msg.ConversationId)
	if !found {
		err := errors.New("unknown conversation id")
		log.Error("failed validation before saving message", "error", err)
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	msgKey := messagesKey(msg.ConversationId)
	if err := s.store.ListPush(ctx, msgKey, data); err != nil {
		log.Error("error saving message", "error", err)
		return err
	}
	if err := s.store.Expire(ctx, msgKey, config.RedisConversationStoreTTL); err != nil {
		log.Warn("could not refresh message list ttl", "error", err)
	}

	advanceConversation(&conv, msg)
	return s.saveConversation(ctx, conv)
}

func (s *RedisConversationStore) GetMessages(ctx context.Context, conversationId string) ([]commonModels.Message, error) {
	raw, err := s.store.ListGetAll(ctx, messagesKey(conversationId))
	if err != nil {
		return nil, err
	}
	return unmarshalMessages(raw)
}

func (s *RedisConversationStore) GetRecentMessages(ctx context.Context, conversationId string, limit int) ([]commonModels.Message, error) {
	raw, err := s.store.ListGetRecent(ctx, messagesKey(conversationId), limit)
	if err != nil {
		return nil, err
	}
	return unmarshalMessages(raw)
}

func unmarshalMessages(raw []string) ([]commonModels.Message, error) {
	messages := make([]commonModels.Message, 0, len(raw))
	for _, entry := range raw {
		var msg commonModels.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func TestConversationStore(store *redisStore.Store) *RedisConversationStore {
	return &RedisConversationStore{
		store:  store,
		logger: logger_i.NewLogger("test conversations"),
	}
}
