// Package checkpoint persists the processed-file set and aggregate counters
// of a corpus run so an interrupted batch can resume without reprocessing.
// The on-disk record is a JSON document wrapped with a blake3 checksum; a
// record that fails any integrity check refuses to load rather than handing
// back a partially-initialized state.
package checkpoint

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/zeebo/blake3"

	"pdfcheck/report"
)

// ErrCorrupt marks a checkpoint that exists but cannot be trusted. Resume
// must refuse on it: silently starting from zero while believing the run
// resumed would produce wrong aggregate counts.
var ErrCorrupt = errors.New("checkpoint corrupt")

// State is the only entity whose lifetime spans multiple runs. It is created
// on first save and mutated additively on each batch, never partially
// overwritten.
type State struct {
	Timestamp      time.Time    `json:"timestamp"`
	ProcessedFiles []string     `json:"processed_files"`
	Stats          report.Stats `json:"stats"`
}

func NewState() *State {
	return &State{Stats: report.NewStats()}
}

// ProcessedSet returns the processed-file identifiers as a set.
func (s *State) ProcessedSet() map[string]bool {
	set := make(map[string]bool, len(s.ProcessedFiles))
	for _, f := range s.ProcessedFiles {
		set[f] = true
	}
	return set
}

// MarkProcessed records one file. Callers mark only after the file's result
// has been folded into Stats, so no file is ever half-counted.
func (s *State) MarkProcessed(id string) {
	s.ProcessedFiles = append(s.ProcessedFiles, id)
}

// envelope wraps the serialized state with its integrity checksum.
type envelope struct {
	Checksum string          `json:"checksum"`
	Payload  json.RawMessage `json:"payload"`
}

// Store reads and writes one checkpoint file. Two instances writing the same
// path race (last writer wins); guarding against that is the operator's
// responsibility, not the store's.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (st *Store) Path() string { return st.path }

// Save writes state atomically: temp file in the same directory, then
// rename. A crash mid-save leaves the previous checkpoint intact.
func (st *Store) Save(s *State) error {
	s.Timestamp = time.Now()
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	sum := blake3.Sum256(payload)
	data, err := json.MarshalIndent(envelope{
		Checksum: hex.EncodeToString(sum[:]),
		Payload:  payload,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint envelope: %w", err)
	}

	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}
	return nil
}

// Load returns the stored state, (nil, nil) when no checkpoint exists, or an
// error wrapping ErrCorrupt when the record cannot be trusted.
func (st *Store) Load() (*State, error) {
	data, err := os.ReadFile(st.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Checksum == "" || len(env.Payload) == 0 {
		return nil, fmt.Errorf("%w: missing checksum or payload", ErrCorrupt)
	}
	sum := blake3.Sum256(env.Payload)
	if hex.EncodeToString(sum[:]) != env.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	var s State
	if err := json.Unmarshal(env.Payload, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if s.Timestamp.IsZero() {
		return nil, fmt.Errorf("%w: missing timestamp", ErrCorrupt)
	}
	if s.Stats.TotalProcessed != len(s.ProcessedFiles) {
		return nil, fmt.Errorf("%w: %d files recorded but %d counted",
			ErrCorrupt, len(s.ProcessedFiles), s.Stats.TotalProcessed)
	}
	s.Stats.EnsureMaps()
	return &s, nil
}

// Clear removes the checkpoint after a completed run. A missing file is not
// an error.
func (st *Store) Clear() error {
	err := os.Remove(st.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
