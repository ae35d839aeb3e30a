package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skilllink/skilllink-client/internal/core/domain"
	"github.com/skilllink/skilllink-client/internal/core/ports"
	"github.com/skilllink/skilllink-client/internal/metrics"
)

// ledgerKey parameterises the per-user message ledger key.
const ledgerKey = "skilllink_messages_%s"

// ChatService is the append-only message ledger with derived conversation
// views. It works purely against local key-value storage; there is no network
// path and no cross-device synchronisation.
//
// Each message is written into the ledgers of both participants at creation
// time. The duplication is deliberate: every user's view is served entirely
// from their own ledger, and the read flag is a per-copy attribute that is
// never reconciled between the two copies.
type ChatService struct {
	store     ports.KeyValue
	directory ports.UserDirectory
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string

	mu sync.Mutex
}

func NewChatService(store ports.KeyValue, directory ports.UserDirectory, log zerolog.Logger) *ChatService {
	return &ChatService{
		store:     store,
		directory: directory,
		log:       log,
		now:       time.Now,
		newID:     func() string { return "msg_" + uuid.NewString() },
	}
}

// Send appends a message to both participants' ledgers. Empty or
// whitespace-only content is a silent no-op, not an error.
func (s *ChatService) Send(senderID, receiverID, content, jobID string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	msg := domain.Message{
		ID:         s.newID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		JobID:      jobID,
		Content:    content,
		SentAt:     s.now().UTC(),
		Read:       false,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The receiver's copy is written first; if the sender's write then fails,
	// the receiver's ledger is restored so the message lands in both ledgers
	// or in neither.
	receiverStoreKey := fmt.Sprintf(ledgerKey, receiverID)
	prevReceiver, hadReceiver := s.store.Get(receiverStoreKey)

	if err := s.saveLedger(receiverID, append(s.ledger(receiverID), msg)); err != nil {
		return nil, err
	}
	if err := s.saveLedger(senderID, append(s.ledger(senderID), msg)); err != nil {
		var rbErr error
		if hadReceiver {
			rbErr = s.store.Set(receiverStoreKey, prevReceiver)
		} else {
			rbErr = s.store.Delete(receiverStoreKey)
		}
		if rbErr != nil {
			s.log.Error().Err(rbErr).Str("receiver_id", receiverID).Msg("could not restore receiver ledger after failed send")
		}
		return nil, err
	}

	metrics.MessagesSentTotal.Inc()
	s.log.Debug().Str("message_id", msg.ID).Str("receiver_id", receiverID).Msg("message stored")
	return &msg, nil
}

// Conversation returns the messages between userID and otherID, oldest first,
// as recorded in userID's own ledger.
func (s *ChatService) Conversation(userID, otherID string) []domain.Message {
	s.mu.Lock()
	entries := s.ledger(userID)
	s.mu.Unlock()

	var out []domain.Message
	for _, m := range entries {
		if (m.SenderID == userID && m.ReceiverID == otherID) ||
			(m.SenderID == otherID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out
}

// Previews groups userID's ledger by conversation partner and summarises each
// group: partner identity, most recent message, and the count of unread
// messages the partner sent. Partners the directory cannot resolve are
// silently dropped. Ordered by most recent message, newest first.
func (s *ChatService) Previews(userID string) []domain.ConversationPreview {
	s.mu.Lock()
	entries := s.ledger(userID)
	s.mu.Unlock()

	grouped := make(map[string][]domain.Message)
	for _, m := range entries {
		partnerID := m.SenderID
		if m.SenderID == userID {
			partnerID = m.ReceiverID
		}
		grouped[partnerID] = append(grouped[partnerID], m)
	}

	previews := make([]domain.ConversationPreview, 0, len(grouped))
	for partnerID, msgs := range grouped {
		partner, ok := s.directory.UserByID(partnerID)
		if !ok {
			s.log.Debug().Str("partner_id", partnerID).Msg("dropping conversation with unknown user")
			continue
		}

		last := msgs[0]
		unread := 0
		for _, m := range msgs {
			if m.SentAt.After(last.SentAt) {
				last = m
			}
			if m.SenderID == partnerID && !m.Read {
				unread++
			}
		}

		previews = append(previews, domain.ConversationPreview{
			Partner:     partner,
			LastMessage: last,
			UnreadCount: unread,
		})
	}

	sort.SliceStable(previews, func(i, j int) bool {
		return previews[i].LastMessage.SentAt.After(previews[j].LastMessage.SentAt)
	})
	return previews
}

// MarkConversationRead flips the read flag on userID's copies of messages
// sent by otherID. The sender's copies are untouched; read state is
// per-ledger by design.
func (s *ChatService) MarkConversationRead(userID, otherID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.ledger(userID)
	changed := false
	for i := range entries {
		if entries[i].SenderID == otherID && entries[i].ReceiverID == userID && !entries[i].Read {
			entries[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.saveLedger(userID, entries)
}

// ledger loads a user's message ledger. A missing or unparsable ledger reads
// as empty, matching the new-user case.
func (s *ChatService) ledger(userID string) []domain.Message {
	raw, ok := s.store.Get(fmt.Sprintf(ledgerKey, userID))
	if !ok {
		return nil
	}
	var entries []domain.Message
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("unreadable message ledger; treating as empty")
		return nil
	}
	return entries
}

func (s *ChatService) saveLedger(userID string, entries []domain.Message) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode ledger for %s: %w", userID, err)
	}
	if err := s.store.Set(fmt.Sprintf(ledgerKey, userID), string(data)); err != nil {
		return fmt.Errorf("persist ledger for %s: %w", userID, err)
	}
	return nil
}
