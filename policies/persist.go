package policies

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeu5/dropmind/util"
)

var ErrCorruptSnapshot = errors.New("corrupt q-table snapshot")

// SaveBinary writes the table as a gob encoded map
func (q *QAgent) SaveBinary(path string) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(q.qTable.Snapshot()); err != nil {
		return fmt.Errorf("encoding q-table: %w", err)
	}
	return util.WriteFileAtomic(path, buf.Bytes())
}

// LoadBinary replaces the table with the one stored at path.
// The current table is kept when the file cannot be read or decoded.
func (q *QAgent) LoadBinary(path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	snap := make(Snapshot)
	if err := gob.NewDecoder(bytes.NewReader(bs)).Decode(&snap); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, path, err)
	}
	table, err := qTableFromSnapshot(snap)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, path, err)
	}
	q.qTable = table
	return nil
}

// MarshalJSON encodes the table with string action keys "0".."4"
func (q *QTable) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]float64, len(q.table))
	for s, values := range q.Snapshot() {
		row := make(map[string]float64, len(values))
		for a, v := range values {
			row[strconv.Itoa(a)] = v
		}
		out[s] = row
	}
	return json.Marshal(out)
}

func (q *QTable) UnmarshalJSON(data []byte) error {
	raw := make(map[string]map[string]float64)
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	snap := make(Snapshot, len(raw))
	for s, row := range raw {
		values := make(map[int]float64, len(row))
		for key, v := range row {
			a, err := strconv.Atoi(key)
			if err != nil || strconv.Itoa(a) != key {
				return fmt.Errorf("%w: action key %q of state %s", ErrCorruptSnapshot, key, s)
			}
			values[a] = v
		}
		snap[s] = values
	}
	table, err := qTableFromSnapshot(snap)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	q.table = table.table
	return nil
}

func (q *QAgent) SaveJSON(path string) error {
	bs, err := json.Marshal(q.qTable)
	if err != nil {
		return fmt.Errorf("encoding q-table: %w", err)
	}
	return util.WriteFileAtomic(path, bs)
}

// LoadJSON replaces the table with the one stored at path, keeping the
// current table on failure.
func (q *QAgent) LoadJSON(path string) error {
	table, err := ReadJSONTable(path)
	if err != nil {
		return err
	}
	q.qTable = table
	return nil
}

// ReadJSONTable reads a JSON snapshot into a new table
func ReadJSONTable(path string) (*QTable, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	table := NewQTable()
	if err := json.Unmarshal(bs, table); err != nil {
		if errors.Is(err, ErrCorruptSnapshot) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, path, err)
	}
	return table, nil
}

// Load reads a snapshot in the format given by the extension of path,
// JSON for ".json" and gob otherwise.
func (q *QAgent) Load(path string) error {
	if IsJSONPath(path) {
		return q.LoadJSON(path)
	}
	return q.LoadBinary(path)
}

func IsJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
