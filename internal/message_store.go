package internal

import (
	"context"
	"strings"
)

// MessageReader is the part of the UI driver that lists conversation nodes
// in document order.
type MessageReader interface {
	ReadMessages(ctx context.Context) ([]RawMessage, error)
}

// MessageStore turns raw driver nodes into an ordered, typed Message sequence.
// It never fails: unreadable nodes are skipped and an unreachable surface
// reads as an empty conversation.
type MessageStore struct {
	reader      MessageReader
	idAttrs     []string
	classMarker string
	log         RoundLogger
}

// NewMessageStore creates a MessageStore using the identity settings of cfg
func NewMessageStore(reader MessageReader, cfg Config, log RoundLogger) *MessageStore {
	return &MessageStore{
		reader:      reader,
		idAttrs:     cfg.MessageIDAttributes,
		classMarker: cfg.AssistantClassMarker,
		log:         log,
	}
}

// ReadSequence returns the current conversation in document order
func (s *MessageStore) ReadSequence(ctx context.Context) []Message {
	raw, err := s.reader.ReadMessages(ctx)
	if err != nil {
		s.log.Debug("Conversation read failed, treating as empty: %v", err)
		return nil
	}

	messages := make([]Message, 0, len(raw))
	skipped := 0
	for _, node := range raw {
		msg, ok := s.convert(node)
		if !ok {
			skipped++
			continue
		}
		messages = append(messages, msg)
	}
	if skipped > 0 {
		s.log.Debug("Skipped %d unreadable conversation node(s)", skipped)
	}
	return messages
}

// convert shapes one raw node; nodes without text or identity are dropped
func (s *MessageStore) convert(node RawMessage) (Message, bool) {
	if node.Err != nil {
		return Message{}, false
	}
	text := NormalizeText(node.Text)
	if text == "" {
		return Message{}, false
	}
	id := s.identity(node)
	if id == "" {
		return Message{}, false
	}
	return Message{ID: id, Role: s.role(node), Text: text}, true
}

func (s *MessageStore) identity(node RawMessage) string {
	for _, attr := range s.idAttrs {
		if value := strings.TrimSpace(node.Attrs[attr]); value != "" {
			return value
		}
	}
	return ""
}

func (s *MessageStore) role(node RawMessage) Role {
	if role, ok := normalizeRole(node.RoleHint); ok {
		return role
	}
	if s.classMarker != "" && strings.Contains(node.Class, s.classMarker) {
		return RoleAssistant
	}
	return RoleUser
}

// SplitByRole partitions a sequence, preserving order within each role
func SplitByRole(seq []Message) (users, assistants []Message) {
	for _, msg := range seq {
		switch msg.Role {
		case RoleUser:
			users = append(users, msg)
		case RoleAssistant:
			assistants = append(assistants, msg)
		}
	}
	return users, assistants
}
