package gear

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const currentPersistVersion = 2

// persistedCharacter is the on-disk shape of one character's Row.
type persistedCharacter struct {
	Required  map[string]int `json:"required"`
	Assigned  map[string]int `json:"assigned"`
	Available map[string]int `json:"available"`
	Desired   map[string]int `json:"desired"`
	BestTarget string        `json:"bestTarget"`
	Level      int           `json:"level"`
}

// persistedState is the root document written to disk (§9 design note:
// "persist Gear State as versioned JSON with a v1->v2 migration").
type persistedState struct {
	Version              int                           `json:"version"`
	UpdatedAtMs          int64                         `json:"updatedAtMs"`
	BankRevisionSnapshot uint64                        `json:"bankRevisionSnapshot"`
	Levels               map[string]int                `json:"levels,omitempty"` // v1 compat
	Characters           map[string]persistedCharacter `json:"characters"`

	// v1 legacy fields, read during migration only.
	Owned map[string]map[string]int `json:"owned,omitempty"`
}

// Writer persists a State to a JSON file with a debounced, atomic
// temp-file-then-rename write (§9 design note), so a crash mid-write never
// leaves a torn or partially-written file behind.
type Writer struct {
	path string

	mu      sync.Mutex
	pending bool
	timer   *time.Timer
	debounce time.Duration
}

// NewWriter builds a Writer targeting path, debouncing writes by debounce
// (use 250*time.Millisecond to match the production default).
func NewWriter(path string, debounce time.Duration) *Writer {
	return &Writer{path: path, debounce: debounce}
}

// RequestSave schedules a debounced write of snapshot. Calling it again
// before the timer fires coalesces into a single write of the latest
// snapshot instead of queuing one write per call.
func (w *Writer) RequestSave(snapshot func() ([]byte, error)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending {
		return
	}
	w.pending = true
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.pending = false
		w.mu.Unlock()

		data, err := snapshot()
		if err != nil {
			return
		}
		_ = w.writeAtomic(data)
	})
}

// Flush cancels any pending debounce timer and writes data immediately.
func (w *Writer) Flush(data []byte) error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = false
	w.mu.Unlock()
	return w.writeAtomic(data)
}

func (w *Writer) writeAtomic(data []byte) error {
	dir := filepath.Dir(w.path)
	tmp := filepath.Join(dir, filepath.Base(w.path)+fmt.Sprintf(".tmp-%d-%d-%s", os.Getpid(), time.Now().UnixMilli(), uuid.NewString()))

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write gear state temp file: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename gear state file: %w", err)
	}
	return nil
}

// Marshal serializes s's current rows into the versioned on-disk shape.
func Marshal(s *State, bankRevision uint64, nowMs int64) ([]byte, error) {
	doc := persistedState{
		Version:              currentPersistVersion,
		UpdatedAtMs:          nowMs,
		BankRevisionSnapshot: bankRevision,
		Characters:           make(map[string]persistedCharacter, len(s.rows)),
	}
	for name, row := range s.rows {
		doc.Characters[name] = persistedCharacter{
			Required:   row.Required,
			Assigned:   row.Assigned,
			Available:  row.Available,
			Desired:    row.Desired,
			BestTarget: row.BestTarget,
			Level:      row.LevelSnapshot,
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Load reads a persisted Gear State document from path into s's rows,
// migrating a v1 document (owned-only, no assigned split) forward to v2 by
// copying "owned" into "available" and leaving "assigned" empty — every
// code starts unclaimed again and step 4's cross-character allocation
// rebuilds assignments on the next Refresh. Returns the snapshotted bank
// revision so the caller can decide whether the loaded rows are stale
// against the live invmirror.Mirror.
func (s *State) Load(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var doc persistedState
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parse gear state file: %w", err)
	}

	rows := make(map[string]*Row)

	switch doc.Version {
	case 1:
		for name, owned := range doc.Owned {
			row := newRow()
			for code, qty := range owned {
				row.Available[code] = qty
			}
			row.LevelSnapshot = doc.Levels[name]
			rows[name] = row
		}
	default:
		for name, pc := range doc.Characters {
			row := newRow()
			if pc.Required != nil {
				row.Required = pc.Required
			}
			if pc.Assigned != nil {
				row.Assigned = pc.Assigned
			}
			if pc.Available != nil {
				row.Available = pc.Available
			}
			if pc.Desired != nil {
				row.Desired = pc.Desired
			}
			row.BestTarget = pc.BestTarget
			row.LevelSnapshot = pc.Level
			rows[name] = row
		}
	}

	s.rows = rows
	return doc.BankRevisionSnapshot, nil
}
