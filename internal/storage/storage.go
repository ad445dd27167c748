package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesslite/internal/engine"
	"github.com/hailam/chesslite/internal/game"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	gamePrefix     = "game/"
)

// ErrGameNotFound is returned when no record exists for a game id.
var ErrGameNotFound = errors.New("game not found")

// Preferences stores the settings used for new games.
type Preferences struct {
	Depth       int       `json:"depth"`
	MaxPlies    int       `json:"max_plies"`
	Strategy    string    `json:"strategy"`
	Concurrency int       `json:"concurrency"`
	LastPlayed  time.Time `json:"last_played"`
}

// DefaultPreferences returns default preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Depth:    engine.DefaultDepth,
		MaxPlies: 0,
		Strategy: engine.CopyMake.String(),
	}
}

// GameOptions converts the preferences into self-play options.
func (p *Preferences) GameOptions() (game.Options, error) {
	strategy, err := engine.ParseStrategy(p.Strategy)
	if err != nil {
		return game.Options{}, err
	}
	return game.Options{
		Depth:    p.Depth,
		Strategy: strategy,
		MaxPlies: p.MaxPlies,
	}, nil
}

// Stats stores aggregate statistics over recorded games.
type Stats struct {
	GamesPlayed   int            `json:"games_played"`
	ByOutcome     map[string]int `json:"by_outcome"`
	TotalPlies    int            `json:"total_plies"`
	LongestGame   int            `json:"longest_game"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{ByOutcome: make(map[string]int)}
}

// AveragePlies returns the mean game length in half-moves.
func (s *Stats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

func (s *Stats) add(rec *game.Record) {
	s.GamesPlayed++
	s.ByOutcome[string(rec.Outcome)]++
	s.TotalPlies += rec.Plies()
	s.TotalPlayTime += rec.Duration
	if rec.Plies() > s.LongestGame {
		s.LongestGame = rec.Plies()
	}
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// NewStorage opens the store in the default database directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) a store in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves preferences.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads preferences, returns defaults if not found.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.get(keyPreferences, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// LoadStats loads statistics, returns empty stats if not found.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return nil, err
	}
	if stats.ByOutcome == nil {
		stats.ByOutcome = make(map[string]int)
	}
	return stats, nil
}

// SaveGame stores a game record under its id without touching statistics.
func (s *Storage) SaveGame(rec *game.Record) error {
	if rec.ID == "" {
		return errors.New("game record has no id")
	}
	return s.put(gamePrefix+rec.ID, rec)
}

// RecordGame stores a finished game and folds it into the statistics in a
// single transaction.
func (s *Storage) RecordGame(rec *game.Record) error {
	if rec.ID == "" {
		return errors.New("game record has no id")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		stats := NewStats()
		if err := getTxn(txn, keyStats, stats); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if stats.ByOutcome == nil {
			stats.ByOutcome = make(map[string]int)
		}
		stats.add(rec)

		if err := setTxn(txn, gamePrefix+rec.ID, rec); err != nil {
			return err
		}
		return setTxn(txn, keyStats, stats)
	})
}

// LoadGame loads the record of a game.
func (s *Storage) LoadGame(id string) (*game.Record, error) {
	rec := &game.Record{}
	found, err := s.get(gamePrefix+id, rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return rec, nil
}

// DeleteGame removes a game record. Statistics are kept.
func (s *Storage) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(gamePrefix + id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrGameNotFound, id)
			}
			return err
		}
		return txn.Delete(key)
	})
}

// ListGames returns all stored games, most recent first.
func (s *Storage) ListGames() ([]*game.Record, error) {
	var records []*game.Record

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rec := &game.Record{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].StartedAt.Equal(records[j].StartedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	return records, nil
}

func (s *Storage) put(key string, v any) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return setTxn(txn, key, v)
	})
}

// get decodes the value under key into v. It reports false, leaving v
// untouched, when the key does not exist.
func (s *Storage) get(key string, v any) (bool, error) {
	found := true
	err := s.db.View(func(txn *badger.Txn) error {
		err := getTxn(txn, key, v)
		if errors.Is(err, badger.ErrKeyNotFound) {
			found = false
			return nil
		}
		return err
	})
	return found, err
}

func setTxn(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

func getTxn(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}
