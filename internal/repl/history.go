package repl

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// Entry is one REPL history record.
type Entry struct {
	Input  string
	Output string
}

// historyPath resolves the history file location, per spec.md's REPL
// extension: $XDG_STATE_HOME/slight/history.cbor, falling back to
// ~/.slight_history.cbor when XDG_STATE_HOME is unset.
func historyPath() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "slight", "history.cbor"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".slight_history.cbor"), nil
}

// SaveHistory CBOR-encodes entries canonically and prefixes the blob with
// a BLAKE2b-256 hash header, the same canonical-CBOR-then-hash shape
// core/planfmt's CanonicalPlan uses for its plan digest.
func SaveHistory(entries []Entry) error {
	path, err := historyPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return err
	}
	body, err := encMode.Marshal(entries)
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}
	sum := blake2b.Sum256(body)
	var out bytes.Buffer
	out.Write(sum[:])
	out.Write(body)
	return os.WriteFile(path, out.Bytes(), 0o644)
}

// LoadHistory reads and integrity-checks the history file, returning nil
// (not an error) when it doesn't exist yet.
func LoadHistory() ([]Entry, error) {
	path, err := historyPath()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(raw) < blake2b.Size256 {
		return nil, fmt.Errorf("history: file too short to contain a hash header")
	}
	wantSum, body := raw[:blake2b.Size256], raw[blake2b.Size256:]
	gotSum := blake2b.Sum256(body)
	if !bytes.Equal(wantSum, gotSum[:]) {
		return nil, fmt.Errorf("history: integrity check failed, file may be corrupted")
	}
	var entries []Entry
	if err := cbor.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("history: decode: %w", err)
	}
	return entries, nil
}
