package main

import (
	"sync"
	"time"
)

// Store owns all mutable state for one visitor: the profile list,
// liked/passed id sets, per-profile chat transcripts and the visitor's own
// profile. Every mutation goes through one of its methods; read accessors
// hand out copies so callers never touch the guarded slices and maps.
type Store struct {
	mu          sync.RWMutex
	profiles    []Profile
	likedIds    map[string]bool
	passedIds   map[string]bool
	chats       map[string][]ChatMessage
	currentUser *Profile
}

func NewStore() *Store {
	return &Store{
		likedIds:  make(map[string]bool),
		passedIds: make(map[string]bool),
		chats:     make(map[string][]ChatMessage),
	}
}

// SetProfiles replaces the profile collection wholesale.
func (s *Store) SetProfiles(profiles []Profile) {
	next := make([]Profile, len(profiles))
	copy(next, profiles)
	s.mu.Lock()
	s.profiles = next
	s.mu.Unlock()
}

// Profiles returns a copy of the collection in deck order.
func (s *Store) Profiles() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Profile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// ProfileByID looks up a profile in the collection.
func (s *Store) ProfileByID(id string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findProfile(id)
}

// findProfile must be called with the lock held.
func (s *Store) findProfile(id string) (Profile, bool) {
	for _, p := range s.profiles {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// LikeProfile adds id to the liked set and, if no chat exists yet, seeds
// the 3-message match transcript from that profile's strike fund.
// Idempotent: liking twice neither reseeds the chat nor duplicates the id.
func (s *Store) LikeProfile(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likedIds[id] = true
	if _, ok := s.chats[id]; ok {
		return
	}
	if p, ok := s.findProfile(id); ok {
		s.chats[id] = matchSeed(p, time.Now().UnixMilli())
	}
}

// PassProfile adds id to the passed set. Idempotent by set semantics.
func (s *Store) PassProfile(id string) {
	s.mu.Lock()
	s.passedIds[id] = true
	s.mu.Unlock()
}

// UnlikeProfile reverses LikeProfile: the id leaves the liked set and the
// seeded chat is dropped. Used by the swipe undo path.
func (s *Store) UnlikeProfile(id string) {
	s.mu.Lock()
	delete(s.likedIds, id)
	delete(s.chats, id)
	s.mu.Unlock()
}

// UnpassProfile reverses PassProfile.
func (s *Store) UnpassProfile(id string) {
	s.mu.Lock()
	delete(s.passedIds, id)
	s.mu.Unlock()
}

func (s *Store) IsLiked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.likedIds[id]
}

func (s *Store) IsPassed(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.passedIds[id]
}

// LikedProfiles returns the liked profiles in deck order (the matches view).
func (s *Store) LikedProfiles() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Profile, 0, len(s.likedIds))
	for _, p := range s.profiles {
		if s.likedIds[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// Candidates returns the profiles not yet liked or passed, in deck order.
func (s *Store) Candidates() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if !s.likedIds[p.ID] && !s.passedIds[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// EnsureChatFor seeds the 4-message visit transcript, only if no chat
// exists yet for id. Calling it twice changes nothing.
func (s *Store) EnsureChatFor(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chats[id]; ok {
		return
	}
	if p, ok := s.findProfile(id); ok {
		s.chats[id] = visitSeed(p, time.Now().UnixMilli())
	}
}

// AddUserMessage appends a user-authored message with the current
// timestamp, creating the transcript if absent.
func (s *Store) AddUserMessage(id, text string) ChatMessage {
	msg := ChatMessage{From: FromUser, Text: text, Ts: time.Now().UnixMilli(), Status: StatusSent}
	s.mu.Lock()
	s.chats[id] = append(s.chats[id], msg)
	s.mu.Unlock()
	return msg
}

// AddBotMessage appends a bot message to the transcript for id.
func (s *Store) AddBotMessage(id, text string) ChatMessage {
	msg := ChatMessage{From: FromBot, Text: text, Ts: time.Now().UnixMilli(), Status: StatusDelivered}
	s.mu.Lock()
	s.chats[id] = append(s.chats[id], msg)
	s.mu.Unlock()
	return msg
}

// Chat returns a copy of the transcript for id, oldest first.
func (s *Store) Chat(id string) []ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs, ok := s.chats[id]
	if !ok {
		return []ChatMessage{}
	}
	out := make([]ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// ChatIDs returns the profile ids that have a transcript.
func (s *Store) ChatIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.chats))
	for id := range s.chats {
		ids = append(ids, id)
	}
	return ids
}

// MarkChatRead flips every bot message in the transcript to "read" and
// returns how many were updated.
func (s *Store) MarkChatRead(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	msgs := s.chats[id]
	for i := range msgs {
		if msgs[i].From == FromBot && msgs[i].Status != StatusRead {
			msgs[i].Status = StatusRead
			updated++
		}
	}
	return updated
}

// UnreadCount counts bot messages not yet marked read.
func (s *Store) UnreadCount(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, m := range s.chats[id] {
		if m.From == FromBot && m.Status != StatusRead {
			n++
		}
	}
	return n
}

// UpsertProfile inserts the profile if its id is unseen, otherwise
// replaces it in place, preserving list position.
func (s *Store) UpsertProfile(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.profiles {
		if s.profiles[i].ID == p.ID {
			s.profiles[i] = p
			return
		}
	}
	s.profiles = append(s.profiles, p)
}

// RemoveProfile deletes by id; no-op if absent.
func (s *Store) RemoveProfile(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.profiles {
		if s.profiles[i].ID == id {
			s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
			return
		}
	}
}

// UpdateUserProfile sets the single current-user slot.
func (s *Store) UpdateUserProfile(p Profile) {
	s.mu.Lock()
	s.currentUser = &p
	s.mu.Unlock()
}

// DeleteUserProfile clears the current-user slot.
func (s *Store) DeleteUserProfile() {
	s.mu.Lock()
	s.currentUser = nil
	s.mu.Unlock()
}

// CurrentUser returns the visitor's own profile, if set.
func (s *Store) CurrentUser() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return Profile{}, false
	}
	return *s.currentUser, true
}

// SetUserPhoto points the current-user profile at an uploaded photo.
// Returns false when no profile has been initialized yet.
func (s *Store) SetUserPhoto(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return false
	}
	s.currentUser.PhotoURL = url
	return true
}

// IsProfileComplete reports whether the current user exists and carries a
// name, bio, photo and a titled, linked strike fund.
func (s *Store) IsProfileComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.currentUser
	return u != nil &&
		u.Name != "" &&
		u.Bio != "" &&
		u.PhotoURL != "" &&
		u.StrikeFund.Title != "" &&
		u.StrikeFund.URL != ""
}
