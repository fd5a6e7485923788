package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/UnknownOlympus/zones/internal/models"
)

// ErrNotArray is returned when a JSON input is not a top-level array of objects.
var ErrNotArray = errors.New("agent input must be a JSON array")

// JSONFile reads agents from a file holding one JSON array of objects.
type JSONFile struct {
	path string
	log  *slog.Logger
}

// NewJSONFile creates a source reading the file at path.
func NewJSONFile(path string, log *slog.Logger) *JSONFile {
	return &JSONFile{path: path, log: log}
}

// Each opens the file and streams its records to fn.
func (jf *JSONFile) Each(ctx context.Context, fn func(models.Record) error) error {
	file, err := os.Open(jf.path)
	if err != nil {
		return fmt.Errorf("failed to open agent file: %w", err)
	}
	defer file.Close()

	jf.log.DebugContext(ctx, "Reading agents from JSON file", "path", jf.path)

	return DecodeJSON(ctx, file, fn)
}

// DecodeJSON streams the elements of a JSON array of objects from r to fn
// without holding the whole array in memory.
func DecodeJSON(ctx context.Context, r io.Reader, fn func(models.Record) error) error {
	decoder := json.NewDecoder(r)

	token, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("failed to read agent input: %w", err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("%w: got %v", ErrNotArray, token)
	}

	for idx := 0; decoder.More(); idx++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		var record models.Record
		if err = decoder.Decode(&record); err != nil {
			return fmt.Errorf("failed to decode agent record %d: %w", idx, err)
		}
		if record == nil {
			return fmt.Errorf("%w: record %d is null", ErrNotArray, idx)
		}
		if err = fn(record); err != nil {
			return err
		}
	}

	if _, err = decoder.Token(); err != nil {
		return fmt.Errorf("failed to read end of agent input: %w", err)
	}

	return nil
}
