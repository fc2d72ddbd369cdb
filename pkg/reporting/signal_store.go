package reporting

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/signal"
)

// SignalStore appends emitted signals to a JSONL file, one JSON object
// per line. Safe for concurrent use.
type SignalStore struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// OpenSignalStore opens (creating if needed) the JSONL file at path.
func OpenSignalStore(path string) (*SignalStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create signal log dir: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open signal log: %w", err)
	}
	return &SignalStore{file: file, enc: json.NewEncoder(file)}, nil
}

// Append writes one signal as a JSON line.
func (s *SignalStore) Append(sig *signal.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(sig)
}

// Close flushes and closes the underlying file.
func (s *SignalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// ReadSignals loads every signal from a JSONL file written by a
// SignalStore.
func ReadSignals(path string) ([]signal.Signal, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signal log: %w", err)
	}
	defer file.Close()

	var signals []signal.Signal
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var sig signal.Signal
		if err := json.Unmarshal(line, &sig); err != nil {
			return nil, fmt.Errorf("parse signal line: %w", err)
		}
		signals = append(signals, sig)
	}
	return signals, scanner.Err()
}
