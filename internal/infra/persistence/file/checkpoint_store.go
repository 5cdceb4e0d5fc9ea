package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/repairflow/internal/application/port/output"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/persistence/recordid"
)

// CheckpointStore keeps checkpoints as files:
//
//	<root>/orders/<order_number>/<ulid>.<State>.<format>
//
// ULIDs sort by creation, so a directory listing is the order's history.
type CheckpointStore struct {
	fs   afero.Fs
	root string
	ids  *recordid.Generator
}

// NewCheckpointStore creates a file checkpoint store under root
func NewCheckpointStore(fs afero.Fs, root string) *CheckpointStore {
	return &CheckpointStore{fs: fs, root: root, ids: recordid.New()}
}

// Append writes data as the newest checkpoint of the order
func (s *CheckpointStore) Append(ctx context.Context, orderNumber uint64, state, format string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if state == "" || strings.ContainsAny(state, "./\\") {
		return "", fmt.Errorf("invalid state name %q", state)
	}
	if format == "" || strings.ContainsAny(format, "./\\") {
		return "", fmt.Errorf("invalid format name %q", format)
	}

	id, err := s.ids.Next()
	if err != nil {
		return "", fmt.Errorf("failed to generate checkpoint id: %w", err)
	}

	path := filepath.Join(s.orderDir(orderNumber), id+"."+state+"."+format)
	if err := WriteFileAtomic(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store checkpoint of order %d: %w", orderNumber, err)
	}
	return id, nil
}

// Latest returns the newest checkpoint of the order
func (s *CheckpointStore) Latest(ctx context.Context, orderNumber uint64) (*output.CheckpointRecord, error) {
	names, err := s.list(orderNumber)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, output.ErrCheckpointNotFound
	}
	return s.load(ctx, orderNumber, names[len(names)-1])
}

// History returns every checkpoint of the order, oldest first
func (s *CheckpointStore) History(ctx context.Context, orderNumber uint64) ([]*output.CheckpointRecord, error) {
	names, err := s.list(orderNumber)
	if err != nil {
		return nil, err
	}

	records := make([]*output.CheckpointRecord, 0, len(names))
	for _, name := range names {
		rec, err := s.load(ctx, orderNumber, name)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *CheckpointStore) orderDir(orderNumber uint64) string {
	return filepath.Join(s.root, "orders", strconv.FormatUint(orderNumber, 10))
}

// list returns the record file names of the order in creation order,
// skipping temp files of interrupted writes
func (s *CheckpointStore) list(orderNumber uint64) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.orderDir(orderNumber))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints of order %d: %w", orderNumber, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, _, _, ok := splitName(e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *CheckpointStore) load(ctx context.Context, orderNumber uint64, name string) (*output.CheckpointRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, state, format, _ := splitName(name)
	data, err := afero.ReadFile(s.fs, filepath.Join(s.orderDir(orderNumber), name))
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint %s: %w", id, err)
	}
	created, err := recordid.Time(id)
	if err != nil {
		return nil, fmt.Errorf("malformed checkpoint id %s: %w", id, err)
	}

	return &output.CheckpointRecord{
		ID:          id,
		OrderNumber: orderNumber,
		State:       state,
		Format:      format,
		Data:        data,
		CreatedAt:   created,
	}, nil
}

func splitName(name string) (id, state, format string, ok bool) {
	parts := strings.Split(name, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}
