package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/alarm-panel/internal/domain/event"
)

// DecodeJSON decodes a single JSON record, as published on MQTT.
func DecodeJSON(payload []byte) (event.Event, error) {
	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}

	return record.Event()
}

// EncodeJSON encodes a typed event as a JSON record.
func EncodeJSON(ev event.Event) ([]byte, error) {
	record, ok := FromEvent(ev)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, ev)
	}

	return json.Marshal(record)
}

// ReadFile reads every event of a YAML file. See Read for the accepted layout.
func ReadFile(path string) ([]event.Event, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open events file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	return Read(file)
}

// Read decodes a YAML stream. Each document is either one record or a list of
// records. Empty documents are skipped.
func Read(r io.Reader) ([]event.Event, error) {
	var (
		decoder = yaml.NewDecoder(r)
		events  []event.Event
	)

	for index := 0; ; index++ {
		var node yaml.Node

		err := decoder.Decode(&node)
		if errors.Is(err, io.EOF) {
			return events, nil
		}

		if err != nil {
			return nil, fmt.Errorf("decode document %d: %w", index, err)
		}

		records, err := documentRecords(&node)
		if err != nil {
			return nil, fmt.Errorf("decode document %d: %w", index, err)
		}

		for position, record := range records {
			ev, err := record.Event()
			if err != nil {
				return nil, fmt.Errorf("document %d, record %d: %w", index, position, err)
			}

			events = append(events, ev)
		}
	}
}

// documentRecords decodes a document node holding a record or a list of records.
func documentRecords(node *yaml.Node) ([]Record, error) {
	content := node
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil
		}

		content = node.Content[0]
	}

	switch content.Kind {
	case yaml.SequenceNode:
		var records []Record
		if err := content.Decode(&records); err != nil {
			return nil, err
		}

		return records, nil
	case yaml.MappingNode:
		var record Record
		if err := content.Decode(&record); err != nil {
			return nil, err
		}

		return []Record{record}, nil
	case yaml.ScalarNode:
		// An empty document decodes as a null scalar.
		if content.Tag == "!!null" {
			return nil, nil
		}
	}

	return nil, fmt.Errorf("%w: unexpected yaml node at line %d", ErrUnknownKind, content.Line)
}
