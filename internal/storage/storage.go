// /internal/storage/storage.go
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/keshon/datastore"
)

const (
	commandHistoryLimit int = 20

	// guildIndexKey is the datastore key holding the list of every guild
	// the bot has seen. It is the coordinator's guild listing source.
	guildIndexKey = "guild_index"
)

type Storage struct {
	ds *datastore.DataStore
	mu sync.Mutex // guards read-modify-write cycles on records and the index
}

type CommandHistoryRecord struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Param       string    `json:"param"`
	Datetime    time.Time `json:"datetime"`
}

// Record is everything stored per guild.
type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
	Toggles             map[string]bool        `json:"toggles"` // feature name -> enabled
	JoinedAt            time.Time              `json:"joined_at,omitempty"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// Helper function to get or create a Record for a guild
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		newRecord := &Record{
			CommandsHistoryList: []CommandHistoryRecord{},
			Toggles:             map[string]bool{},
			JoinedAt:            time.Now(),
		}
		s.ds.Add(guildID, newRecord)
		s.addToIndex(guildID)
		return newRecord, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	var record Record
	err = json.Unmarshal(jsonData, &record)
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling to *Record: %w", err)
	}

	if record.Toggles == nil {
		record.Toggles = map[string]bool{}
	}

	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}

	return &record, nil
}

// EnsureGuildRecord creates the guild's record if it does not exist yet.
// Called from ready/guild-create handlers so every guild the bot is in shows
// up in KnownGuildIDs.
func (s *Storage) EnsureGuildRecord(guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.getOrCreateGuildRecord(guildID)
	return err
}

// KnownGuildIDs returns every guild id that has a record, sorted.
func (s *Storage) KnownGuildIDs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// IsToggleEnabled reports whether a named feature is enabled for a guild.
// Unset toggles are disabled.
func (s *Storage) IsToggleEnabled(guildID, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return false, err
	}
	return record.Toggles[name], nil
}

// SetToggle enables or disables a named feature for a guild.
func (s *Storage) SetToggle(guildID, name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.Toggles[name] = enabled
	s.ds.Add(guildID, record)
	return nil
}

// AppendCommandToHistory appends a command history record for a guild
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandsHistoryList = append(record.CommandsHistoryList, command)
	s.ds.Add(guildID, record)
	return nil
}

func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	return record.CommandsHistoryList, nil
}

// readIndex returns the guild index list. Caller holds s.mu.
func (s *Storage) readIndex() ([]string, error) {
	data, exists := s.ds.Get(guildIndexKey)
	if !exists {
		return nil, nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling guild index: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(jsonData, &ids); err != nil {
		return nil, fmt.Errorf("error unmarshalling guild index: %w", err)
	}
	return ids, nil
}

// addToIndex inserts guildID into the index if absent. Caller holds s.mu.
func (s *Storage) addToIndex(guildID string) {
	ids, err := s.readIndex()
	if err != nil {
		ids = nil
	}
	for _, id := range ids {
		if id == guildID {
			return
		}
	}
	s.ds.Add(guildIndexKey, append(ids, guildID))
}
