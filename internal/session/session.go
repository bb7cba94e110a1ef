package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/vidlib/internal/model"
)

// Action labels shown on each video card.
const (
	LabelWatch = "Watch Now"
	LabelBuy   = "Buy"
)

// User is a signed-up viewer.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Context is the ambient presentation context passed to renderers.
type Context struct {
	Theme string
	User  *User
}

// ActionLabel returns the card action for the current viewer.
func (c Context) ActionLabel() string {
	return ActionLabel(c.User != nil)
}

// ActionLabel returns "Watch Now" for a signed-in viewer and "Buy" otherwise.
func ActionLabel(signedIn bool) string {
	if signedIn {
		return LabelWatch
	}
	return LabelBuy
}

type state struct {
	Users   []User `json:"users"`
	Current string `json:"current"` // user ID, empty when signed out
}

// Store persists users and the current session in a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a session Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// FilePath returns the session file path inside dataDir.
func FilePath(dataDir string) string {
	return filepath.Join(dataDir, "session.json")
}

// Signup registers name and signs it in.
func (s *Store) Signup(name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &model.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	if findUser(st.Users, name) != nil {
		return nil, &model.ValidationError{Field: "name", Reason: "already taken"}
	}

	user := User{ID: model.GenerateUUID(), Name: name, CreatedAt: time.Now()}
	st.Users = append(st.Users, user)
	st.Current = user.ID
	if err := s.save(st); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login signs in an existing user.
func (s *Store) Login(name string) (*User, error) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	user := findUser(st.Users, name)
	if user == nil {
		return nil, model.NotFoundError("user", name)
	}
	st.Current = user.ID
	if err := s.save(st); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the current session. Logging out while signed out is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	if st.Current == "" {
		return nil
	}
	st.Current = ""
	return s.save(st)
}

// Current returns the signed-in user, or nil.
func (s *Store) Current() (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	if st.Current == "" {
		return nil, nil
	}
	for i := range st.Users {
		if st.Users[i].ID == st.Current {
			return &st.Users[i], nil
		}
	}
	return nil, nil
}

func findUser(users []User, name string) *User {
	for i := range users {
		if strings.EqualFold(users[i].Name, name) {
			return &users[i]
		}
	}
	return nil
}

func (s *Store) load() (*state, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &state{Users: []User{}}, nil
		}
		return nil, err
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return &st, nil
}

func (s *Store) save(st *state) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
