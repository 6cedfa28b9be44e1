// Package profile owns the customer profile table: a CSV file loaded
// fully into memory at startup and rewritten as a whole on every stat
// update. Last writer wins; the mutex only keeps the in-memory table
// and the file rewrite consistent under concurrent requests.
package profile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrNotFound = errors.New("customer not found")

// Profile is the context handed to quest generation and returned by
// the user-stats endpoint.
type Profile struct {
	CustomerID          string            `json:"customer_id"`
	Promotions          map[string]string `json:"promotions"`
	PaymentPreferences  []string          `json:"payment_preferences"`
	FavoritePlaces      map[string]string `json:"favorite_places"`
	CompletedQuests     int               `json:"completed_quests"`
	QuestCompletionRate float64           `json:"quest_completion_rate"`
	LastQuestDate       string            `json:"last_quest_date"`
}

type Store struct {
	path string
	log  *zap.SugaredLogger

	mu     sync.Mutex
	header []string
	col    map[string]int
	rows   [][]string
}

// Load reads the whole profile table. A missing or unreadable file is a
// startup-fatal condition for the caller.
func Load(path string, log *zap.SugaredLogger) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("user data file not found at %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty table, header row required", path)
	}

	s := &Store{
		path:   path,
		log:    log,
		header: records[0],
		col:    make(map[string]int, len(records[0])),
		rows:   records[1:],
	}
	for i, name := range s.header {
		s.col[name] = i
	}

	log.Infow("profile table loaded", "path", path, "customers", len(s.rows))
	return s, nil
}

func (s *Store) GetProfile(customerID string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.findLocked(customerID)
	if err != nil {
		return Profile{}, err
	}
	return s.profileLocked(customerID, idx)
}

// RecordQuestOutcome bumps the counters for one quest attempt and
// rewrites the table. The completion rate intentionally counts the
// current attempt in the denominator only when it failed; the formula
// is kept bit-for-bit from the production behaviour.
func (s *Store) RecordQuestOutcome(customerID string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.findLocked(customerID)
	if err != nil {
		return err
	}

	completedQuests, err := strconv.Atoi(s.field(idx, "completed_quests"))
	if err != nil {
		return fmt.Errorf("completed_quests for %s: %w", customerID, err)
	}
	if completed {
		completedQuests++
	}
	denom := completedQuests
	if !completed {
		denom++
	}
	rate := 0.0
	if denom > 0 {
		rate = float64(completedQuests) / float64(denom) * 100
	}

	s.setField(idx, "completed_quests", strconv.Itoa(completedQuests))
	s.setField(idx, "quest_completion_rate", strconv.FormatFloat(rate, 'f', -1, 64))
	s.setField(idx, "last_quest_date", time.Now().Format(time.RFC3339))

	if err := s.saveLocked(); err != nil {
		return err
	}

	s.log.Infow("quest outcome recorded",
		"customer_id", customerID,
		"completed", completed,
		"completed_quests", completedQuests,
		"completion_rate", rate,
	)
	return nil
}

func (s *Store) findLocked(customerID string) (int, error) {
	ci, ok := s.col["customer_id"]
	if !ok {
		return 0, fmt.Errorf("profile table has no customer_id column")
	}
	for i, row := range s.rows {
		if ci < len(row) && row[ci] == customerID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
}

func (s *Store) profileLocked(customerID string, idx int) (Profile, error) {
	for _, name := range []string{
		"food_treatment", "ride_treatment", "car_treatment",
		"rank_1_uc", "rank_2_uc", "rank_3_uc",
		"RIDE_PREDICTION_PLACE", "CAR_PREDICTION_PLACE", "FOOD_PREDICTION_PLACE",
		"completed_quests", "quest_completion_rate", "last_quest_date",
	} {
		if _, ok := s.col[name]; !ok {
			return Profile{}, fmt.Errorf("profile table missing column %s", name)
		}
	}

	completedQuests, err := strconv.Atoi(s.field(idx, "completed_quests"))
	if err != nil {
		return Profile{}, fmt.Errorf("completed_quests for %s: %w", customerID, err)
	}
	rate, err := strconv.ParseFloat(s.field(idx, "quest_completion_rate"), 64)
	if err != nil {
		return Profile{}, fmt.Errorf("quest_completion_rate for %s: %w", customerID, err)
	}

	return Profile{
		CustomerID: customerID,
		Promotions: map[string]string{
			"food": s.field(idx, "food_treatment"),
			"ride": s.field(idx, "ride_treatment"),
			"car":  s.field(idx, "car_treatment"),
		},
		PaymentPreferences: []string{
			s.field(idx, "rank_1_uc"),
			s.field(idx, "rank_2_uc"),
			s.field(idx, "rank_3_uc"),
		},
		FavoritePlaces: map[string]string{
			"ride": s.field(idx, "RIDE_PREDICTION_PLACE"),
			"car":  s.field(idx, "CAR_PREDICTION_PLACE"),
			"food": s.field(idx, "FOOD_PREDICTION_PLACE"),
		},
		CompletedQuests:     completedQuests,
		QuestCompletionRate: rate,
		LastQuestDate:       s.field(idx, "last_quest_date"),
	}, nil
}

func (s *Store) field(idx int, name string) string {
	c, ok := s.col[name]
	if !ok || c >= len(s.rows[idx]) {
		return ""
	}
	return s.rows[idx][c]
}

func (s *Store) setField(idx int, name string, value string) {
	c, ok := s.col[name]
	if !ok || c >= len(s.rows[idx]) {
		return
	}
	s.rows[idx][c] = value
}

// saveLocked rewrites the whole table. No append path, no locking
// against other processes.
func (s *Store) saveLocked() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", s.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(s.header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(s.rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
