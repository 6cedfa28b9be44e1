// Package questlog is the append-only audit trail of quest events.
// Rows are never read back by the serving path; the whole table still
// round-trips through memory and is rewritten on each append, matching
// the profile store's persistence model.
package questlog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	StatusGenerated = "generated"
	StatusCompleted = "completed"
)

var header = []string{"quest_id", "customer_id", "timestamp", "status", "quest_data"}

type Entry struct {
	QuestID    string `json:"quest_id"`
	CustomerID string `json:"customer_id"`
	Timestamp  string `json:"timestamp"`
	Status     string `json:"status"`
	QuestData  string `json:"quest_data"`
}

type Log struct {
	path string
	log  *zap.SugaredLogger

	mu      sync.Mutex
	entries []Entry
}

// Open loads an existing log or creates a fresh file with the fixed
// column set, creating the parent directory as needed.
func Open(path string, log *zap.SugaredLogger) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	l := &Log{path: path, log: log}

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		if err := l.save(); err != nil {
			return nil, err
		}
		log.Infow("quest log created", "path", path)
		return l, nil
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	for i, rec := range records {
		if i == 0 || len(rec) < len(header) {
			continue
		}
		l.entries = append(l.entries, Entry{
			QuestID:    rec[0],
			CustomerID: rec[1],
			Timestamp:  rec[2],
			Status:     rec[3],
			QuestData:  rec[4],
		})
	}

	log.Infow("quest log loaded", "path", path, "entries", len(l.entries))
	return l, nil
}

// Append records one quest event. The payload's quest_id is reused when
// present; otherwise a fresh one is generated.
func (l *Log) Append(customerID string, payload map[string]any, status string) error {
	questID, _ := payload["quest_id"].(string)
	if questID == "" {
		questID = uuid.NewString()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serialize quest payload: %w", err)
	}

	entry := Entry{
		QuestID:    questID,
		CustomerID: customerID,
		Timestamp:  time.Now().Format(time.RFC3339),
		Status:     status,
		QuestData:  string(data),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if err := l.save(); err != nil {
		return err
	}

	l.log.Infow("quest logged",
		"quest_id", questID,
		"customer_id", customerID,
		"status", status,
	)
	return nil
}

// Entries returns a snapshot of the in-memory table.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) save() error {
	f, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", l.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for _, e := range l.entries {
		if err := w.Write([]string{e.QuestID, e.CustomerID, e.Timestamp, e.Status, e.QuestData}); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
