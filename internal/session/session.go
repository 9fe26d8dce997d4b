package session

import "sync"

// Elaboration is a parked answer waiting for free-text clarification. For a
// single-choice answer only OptionCode is set; for a multi-select answer the
// whole confirmed selection is kept so the text can be spliced into it.
type Elaboration struct {
	QuestionCode string
	OptionCode   string
	Selection    []string
}

// Session is the in-flight conversation state for one user: the question
// pointer, unconfirmed multi-select toggles and a pending elaboration. It is
// process-local and lost on restart; committed answers survive in the store.
type Session struct {
	UserID          int64
	RespondentID    uint
	Language        string
	CurrentQuestion string
	Selected        []string
	Pending         *Elaboration
}

// Toggle flips one option in the unconfirmed multi-select selection,
// preserving selection order.
func (s *Session) Toggle(optionCode string) {
	for i, code := range s.Selected {
		if code == optionCode {
			s.Selected = append(s.Selected[:i], s.Selected[i+1:]...)
			return
		}
	}
	s.Selected = append(s.Selected, optionCode)
}

// Registry holds active sessions keyed by external user id. Sessions of
// different users are independent; the lock only guards the map itself.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

func (r *Registry) Get(userID int64) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	return s, ok
}

func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.UserID] = s
}

func (r *Registry) Delete(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}
