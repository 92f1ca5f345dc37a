package labor

import (
	"sort"
	"strings"
	"sync"
	"time"

	"farmgate/internal/errors"

	"github.com/google/uuid"
)

// The labor directory is deliberately in-memory: it models village labor
// groups whose membership churns faster than anyone would maintain rows for,
// and losing it on restart is acceptable. Everything behind the mutex.

type Laborer struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Skills   []string `json:"skills"`
	Location string   `json:"location"`
	Contact  string   `json:"contact"`
	Rating   float64  `json:"rating"`
	Verified bool     `json:"verified"`
}

type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	LeaderID    string   `json:"leader_id"`
	Members     []string `json:"members"`
}

type Booking struct {
	ID          string    `json:"id"`
	LaborerID   string    `json:"laborer_id"`
	RequesterID string    `json:"requester_id"`
	Date        string    `json:"date"`
	Notes       string    `json:"notes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

const BookingStatusPending = "pending"

type Store struct {
	mu       sync.RWMutex
	laborers map[string]Laborer
	groups   map[string]Group
	bookings map[string]Booking
}

func NewStore() *Store {
	s := &Store{
		laborers: map[string]Laborer{},
		groups:   map[string]Group{},
		bookings: map[string]Booking{},
	}
	s.seed()
	return s
}

// seed loads a starter directory so the endpoints are useful from first boot.
func (s *Store) seed() {
	seeded := []Laborer{
		{ID: uuid.NewString(), Name: "Okello James", Skills: []string{"ploughing", "planting"}, Location: "Gulu", Contact: "+256 772 000001", Rating: 4.6, Verified: true},
		{ID: uuid.NewString(), Name: "Namukasa Sarah", Skills: []string{"weeding", "harvesting"}, Location: "Mbale", Contact: "+256 772 000002", Rating: 4.8, Verified: true},
		{ID: uuid.NewString(), Name: "Tumusiime Brian", Skills: []string{"tractor operation", "irrigation"}, Location: "Mbarara", Contact: "+256 772 000003", Rating: 4.3, Verified: false},
		{ID: uuid.NewString(), Name: "Achan Grace", Skills: []string{"harvesting", "sorting"}, Location: "Lira", Contact: "+256 772 000004", Rating: 4.7, Verified: true},
	}
	for _, l := range seeded {
		s.laborers[l.ID] = l
	}
}

// ListLaborers filters by skill and location; blank filters match everything.
func (s *Store) ListLaborers(skill, location string) []Laborer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skill = strings.ToLower(strings.TrimSpace(skill))
	location = strings.ToLower(strings.TrimSpace(location))

	out := []Laborer{}
	for _, l := range s.laborers {
		if location != "" && !strings.Contains(strings.ToLower(l.Location), location) {
			continue
		}
		if skill != "" && !hasSkill(l.Skills, skill) {
			continue
		}
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out
}

func hasSkill(skills []string, want string) bool {
	for _, sk := range skills {
		if strings.Contains(strings.ToLower(sk), want) {
			return true
		}
	}
	return false
}

func (s *Store) GetLaborer(id string) (Laborer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.laborers[id]
	return l, ok
}

func (s *Store) ListGroups() []Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CreateGroup registers a labor group with the creator as leader and first
// member.
func (s *Store) CreateGroup(leaderID, name, description string) (Group, error) {
	if strings.TrimSpace(name) == "" {
		return Group{}, errors.New(errors.ErrInvalidInput, "Group name is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := Group{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		LeaderID:    leaderID,
		Members:     []string{leaderID},
	}
	s.groups[g.ID] = g
	return g, nil
}

func (s *Store) JoinGroup(groupID, userID string) (Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return Group{}, errors.New(errors.ErrNotFound, "Group not found", nil)
	}

	for _, m := range g.Members {
		if m == userID {
			return Group{}, errors.New(errors.ErrConflict, "Already a member of this group", nil)
		}
	}

	g.Members = append(g.Members, userID)
	s.groups[groupID] = g
	return g, nil
}

// RequestBooking records a pending booking against a laborer. There is no
// availability calendar; conflicts are sorted out over the phone.
func (s *Store) RequestBooking(laborerID, requesterID, date, notes string) (Booking, error) {
	if strings.TrimSpace(date) == "" {
		return Booking{}, errors.New(errors.ErrInvalidInput, "Booking date is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.laborers[laborerID]; !ok {
		return Booking{}, errors.New(errors.ErrNotFound, "Laborer not found", nil)
	}

	b := Booking{
		ID:          uuid.NewString(),
		LaborerID:   laborerID,
		RequesterID: requesterID,
		Date:        date,
		Notes:       notes,
		Status:      BookingStatusPending,
		CreatedAt:   time.Now(),
	}
	s.bookings[b.ID] = b
	return b, nil
}

func (s *Store) BookingsForUser(userID string) []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Booking{}
	for _, b := range s.bookings {
		if b.RequesterID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
