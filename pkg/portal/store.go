package portal

import (
	"slices"
	"sync"
)

// Kind names one collection of the store.
type Kind string

const (
	KindCompanies     Kind = "companies"
	KindFiles         Kind = "files"
	KindNotifications Kind = "notifications"
	KindRequests      Kind = "requests"
	KindActivity      Kind = "activity"
)

// Snapshot is a copy of the store's collections. Mutating it does not affect the store.
type Snapshot struct {
	Companies     []Company
	Files         []File
	Notifications []Notification
	Requests      []DocumentRequest
	Activity      []ActivityEntry
}

// Store holds the last fetched collections. Each collection is only ever
// replaced wholesale; subscribers are told which kind changed.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Kind)
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(Kind))}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]File, len(s.snap.Files))
	for i, f := range s.snap.Files {
		f.ReadBy = slices.Clone(f.ReadBy)
		files[i] = f
	}
	return Snapshot{
		Companies:     slices.Clone(s.snap.Companies),
		Files:         files,
		Notifications: slices.Clone(s.snap.Notifications),
		Requests:      slices.Clone(s.snap.Requests),
		Activity:      slices.Clone(s.snap.Activity),
	}
}

// Subscribe registers fn for change events and returns a function that removes it.
// fn runs synchronously on the goroutine that replaced the collection.
func (s *Store) Subscribe(fn func(Kind)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) ReplaceCompanies(v []Company) {
	s.mu.Lock()
	s.snap.Companies = slices.Clone(v)
	s.mu.Unlock()
	s.notify(KindCompanies)
}

func (s *Store) ReplaceFiles(v []File) {
	files := make([]File, len(v))
	for i, f := range v {
		f.ReadBy = slices.Clone(f.ReadBy)
		files[i] = f
	}
	s.mu.Lock()
	s.snap.Files = files
	s.mu.Unlock()
	s.notify(KindFiles)
}

func (s *Store) ReplaceNotifications(v []Notification) {
	s.mu.Lock()
	s.snap.Notifications = slices.Clone(v)
	s.mu.Unlock()
	s.notify(KindNotifications)
}

func (s *Store) ReplaceRequests(v []DocumentRequest) {
	s.mu.Lock()
	s.snap.Requests = slices.Clone(v)
	s.mu.Unlock()
	s.notify(KindRequests)
}

func (s *Store) ReplaceActivity(v []ActivityEntry) {
	s.mu.Lock()
	s.snap.Activity = slices.Clone(v)
	s.mu.Unlock()
	s.notify(KindActivity)
}

// Reset empties every collection, e.g. after logout.
func (s *Store) Reset() {
	s.mu.Lock()
	s.snap = Snapshot{}
	s.mu.Unlock()
	for _, k := range []Kind{KindCompanies, KindFiles, KindNotifications, KindRequests, KindActivity} {
		s.notify(k)
	}
}

func (s *Store) notify(k Kind) {
	s.subMu.Lock()
	fns := make([]func(Kind), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(k)
	}
}
