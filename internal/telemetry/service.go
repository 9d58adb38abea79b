package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// Recorder mirrors accepted readings to a time-series store. Writes are
// expected to be non-blocking; failures must not affect the primary store.
type Recorder interface {
	WriteReading(deviceID string, fields map[string]any, timestamp time.Time)
}

// Service coordinates reading persistence with an optional time-series
// mirror. SQLite remains the source of truth; the mirror is best-effort.
type Service struct {
	repo     Repository
	recorder Recorder
	logger   *slog.Logger
}

// NewService creates a reading service. recorder may be nil when no
// time-series mirror is configured.
func NewService(repo Repository, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

// Create stores a reading and mirrors it to the time-series store.
func (s *Service) Create(ctx context.Context, r *Reading) error {
	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}

	if s.recorder != nil {
		s.recorder.WriteReading(r.DeviceID, r.Fields(), r.Timestamp)
	}

	s.logger.Debug("reading stored",
		"reading_id", r.ID,
		"device_id", r.DeviceID,
	)
	return nil
}

// GetByID retrieves a reading by its unique identifier.
func (s *Service) GetByID(ctx context.Context, id string) (*Reading, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all readings ordered by timestamp ascending.
func (s *Service) List(ctx context.Context) ([]Reading, error) {
	return s.repo.List(ctx)
}

// ListByDevice retrieves a device's readings ordered by timestamp ascending.
func (s *Service) ListByDevice(ctx context.Context, deviceID string) ([]Reading, error) {
	return s.repo.ListByDevice(ctx, deviceID)
}

// Update applies a partial update to a reading. The mirror is not
// rewritten; time-series points are append-only.
func (s *Service) Update(ctx context.Context, id string, upd Update) (*Reading, error) {
	return s.repo.Update(ctx, id, upd)
}

// Delete removes a reading from the primary store.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
