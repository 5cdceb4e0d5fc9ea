// Package checkpoint converts repair order snapshots to and from their
// external record form. One Codec covers both checkpoint granularities and
// both wire formats; decoding is strict and never coerces a bad record into
// a state.
package checkpoint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
)

var (
	// ErrFormat indicates a record that does not describe a valid order state
	ErrFormat = errors.New("invalid checkpoint record")

	// ErrOutsideBoundary indicates a state the codec's granularity does not checkpoint
	ErrOutsideBoundary = errors.New("state is not a checkpoint boundary")
)

// Granularity selects which states are checkpointed
type Granularity string

const (
	// StartEnd checkpoints only the inbound New order and the terminal outcome
	StartEnd Granularity = "start_end"
	// EveryStep checkpoints the order after every transition
	EveryStep Granularity = "every_step"
)

// IsValid checks if the granularity is known
func (g Granularity) IsValid() bool {
	return g == StartEnd || g == EveryStep
}

// Format selects the wire encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// IsValid checks if the format is known
func (f Format) IsValid() bool {
	return f == FormatJSON || f == FormatYAML
}

// Extension returns the file extension of the format
func (f Format) Extension() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// FormatFromPath guesses the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("cannot tell checkpoint format of %q", path)
	}
}

// Codec encodes and decodes snapshots
type Codec struct {
	granularity Granularity
	format      Format
}

// NewCodec creates a codec
func NewCodec(granularity Granularity, format Format) (*Codec, error) {
	if !granularity.IsValid() {
		return nil, fmt.Errorf("unknown checkpoint granularity %q", granularity)
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unknown checkpoint format %q", format)
	}
	return &Codec{granularity: granularity, format: format}, nil
}

// Granularity returns the granularity of the codec
func (c *Codec) Granularity() Granularity { return c.granularity }

// Format returns the wire format of the codec
func (c *Codec) Format() Format { return c.format }

// Covers reports whether the codec checkpoints orders in state l
func (c *Codec) Covers(l repair.StateLabel) bool {
	if !l.IsValid() {
		return false
	}
	if c.granularity == EveryStep {
		return true
	}
	return l == repair.LabelNew || l.IsTerminal()
}

// Encode renders a snapshot as a labeled record
func (c *Codec) Encode(s repair.Snapshot) ([]byte, error) {
	if s.State == nil {
		return nil, repair.ErrEmptySnapshot
	}
	label := s.Label()
	if !c.Covers(label) {
		return nil, fmt.Errorf("%w: %s under %s", ErrOutsideBoundary, label, c.granularity)
	}

	rec := toRecord(s)
	if c.format == FormatYAML {
		data, err := yaml.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml checkpoint: %w", err)
		}
		return data, nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json checkpoint: %w", err)
	}
	return data, nil
}

// Decode parses a labeled record. Unknown labels, unknown fields and
// missing or extra payload fields are rejected with ErrFormat.
func (c *Codec) Decode(data []byte) (repair.Snapshot, error) {
	var rec record
	if err := c.unmarshal(data, &rec); err != nil {
		return repair.Snapshot{}, err
	}

	s, err := rec.snapshot(c.granularity)
	if err != nil {
		return repair.Snapshot{}, err
	}
	if !c.Covers(s.Label()) {
		return repair.Snapshot{}, fmt.Errorf("%w: %s under %s", ErrOutsideBoundary, s.Label(), c.granularity)
	}
	return s, nil
}

func (c *Codec) unmarshal(data []byte, rec *record) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty record", ErrFormat)
	}

	if c.format == FormatYAML {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(rec); err != nil {
			return fmt.Errorf("%w: %v", ErrFormat, err)
		}
		var extra interface{}
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: more than one document", ErrFormat)
		}
		return nil
	}

	if err := checkJSONKeys(data); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after record", ErrFormat)
	}
	return nil
}
