package order

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
	"github.com/YoshitsuguKoike/repairflow/internal/infra/checkpoint"
)

// InspectCheckpointUseCase decodes a checkpoint file
type InspectCheckpointUseCase struct {
	fs afero.Fs
}

// NewInspectCheckpointUseCase creates a new InspectCheckpointUseCase
func NewInspectCheckpointUseCase(fs afero.Fs) *InspectCheckpointUseCase {
	return &InspectCheckpointUseCase{fs: fs}
}

// Execute reads path and decodes it with the format its extension names
func (u *InspectCheckpointUseCase) Execute(path string) (repair.Snapshot, error) {
	format, err := checkpoint.FormatFromPath(path)
	if err != nil {
		return repair.Snapshot{}, err
	}
	codec, err := checkpoint.NewCodec(checkpoint.EveryStep, format)
	if err != nil {
		return repair.Snapshot{}, err
	}

	data, err := afero.ReadFile(u.fs, path)
	if err != nil {
		return repair.Snapshot{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	snap, err := codec.Decode(data)
	if err != nil {
		return repair.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
