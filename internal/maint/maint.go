// Package maint implements the maintenance operations: moving statistics
// data between sensors, merging duplicate sensors, and listing sensors.
//
// Precondition failures (missing sensor, ambiguous metadata, ordering
// violation) are logged and abort the operation without returning an
// error; only driver failures propagate.
package maint

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cgrohmann/hadbmaint/internal/dbexec"
	"github.com/cgrohmann/hadbmaint/internal/sensor"
)

// mergeAllExclusionPrefix names a class of sensors whose names end in the
// duplicate suffix legitimately (per-phase electric meter channels) and
// must never be picked up by MergeAll.
const mergeAllExclusionPrefix = "sensor.electricmeter_l"

// Service runs maintenance operations against one database connection.
type Service struct {
	ex  *dbexec.Executor
	log *slog.Logger
}

// New creates a Service on top of the given executor.
func New(ex *dbexec.Executor) *Service {
	return &Service{ex: ex, log: ex.Logger()}
}

// ListSensors logs all sensor names known to either metadata table.
func (s *Service) ListSensors() error {
	names, err := sensor.ListNames(s.ex)
	if err != nil {
		return err
	}
	s.log.Info("available sensors", "count", len(names))
	for _, name := range names {
		s.log.Info("sensor", "name", name)
	}
	return nil
}

// MoveData reassigns all statistics rows of the old sensor to the new
// sensor, after checking that the two series do not overlap in time. The
// old sensor's metadata row is left in place, now referencing zero rows.
func (s *Service) MoveData(oldName, newName string) error {
	oldID, ok, err := s.resolveLogged(oldName)
	if err != nil || !ok {
		return err
	}
	s.log.Info("old sensor id", "id", oldID)

	newID, ok, err := s.resolveLogged(newName)
	if err != nil || !ok {
		return err
	}
	s.log.Info("new sensor id", "id", newID)

	ok, err = sensor.CheckOrdering(s.ex, s.log, oldID, newID, oldName, newName)
	if err != nil || !ok {
		return err
	}

	for _, t := range sensor.SampleTables {
		s.log.Info("assigning data from the old sensor to the new sensor", "table", t)
		if _, err := s.ex.Write(fmt.Sprintf(`
			UPDATE %s
			SET metadata_id = ?
			WHERE metadata_id = ?`, t), newID, oldID); err != nil {
			return err
		}
	}
	s.log.Info("all data from the old sensor assigned to the new sensor",
		"old", oldName, "new", newName)
	return nil
}

// MergeSensor merges the duplicate of the given sensor (its name plus the
// duplicate suffix) back into the sensor itself: statistics rows are
// reassigned with OR IGNORE so collisions on an existing period are
// dropped rather than failing, then the duplicate's metadata rows are
// deleted from both metadata tables.
//
// No ordering check is performed: a suffixed duplicate is assumed to be a
// re-registration of the same source, and its absence is an expected
// condition in batch runs, not an anomaly.
func (s *Service) MergeSensor(name string) error {
	if strings.HasSuffix(name, sensor.DuplicateSuffix) {
		s.log.Error("sensor name already carries the duplicate suffix", "sensor", name)
		return nil
	}
	dup := name + sensor.DuplicateSuffix

	res, err := sensor.Resolve(s.ex, name)
	if err != nil {
		return err
	}
	switch res.Outcome {
	case sensor.NotFound:
		s.log.Warn("sensor not found, skipping merge", "sensor", name)
		return nil
	case sensor.Ambiguous:
		s.log.Error("multiple sensors with the same name found", "sensor", name)
		return nil
	}

	res, err = sensor.Resolve(s.ex, dup)
	if err != nil {
		return err
	}
	switch res.Outcome {
	case sensor.NotFound:
		s.log.Warn("duplicate sensor not found, skipping merge", "sensor", dup)
		return nil
	case sensor.Ambiguous:
		s.log.Error("multiple sensors with the same name found", "sensor", dup)
		return nil
	}

	for _, t := range sensor.SampleTables {
		s.log.Info("reassigning rows from the duplicate sensor", "table", t, "from", dup, "to", name)
		if _, err := s.ex.Write(fmt.Sprintf(`
			UPDATE OR IGNORE %s
			SET metadata_id = (SELECT id FROM statistics_meta WHERE statistic_id = ?)
			WHERE metadata_id = (SELECT id FROM statistics_meta WHERE statistic_id = ?)`, t),
			name, dup); err != nil {
			return err
		}
	}

	s.log.Info("deleting duplicate statistics metadata", "sensor", dup)
	if _, err := s.ex.Write(`
		DELETE FROM statistics_meta
		WHERE statistic_id = ?`, dup); err != nil {
		return err
	}

	s.log.Info("reassigning state rows from the duplicate sensor", "from", dup, "to", name)
	if _, err := s.ex.Write(`
		UPDATE OR IGNORE states
		SET metadata_id = (SELECT metadata_id FROM states_meta WHERE entity_id = ?)
		WHERE metadata_id = (SELECT metadata_id FROM states_meta WHERE entity_id = ?)`,
		name, dup); err != nil {
		return err
	}

	s.log.Info("deleting duplicate states metadata", "sensor", dup)
	if _, err := s.ex.Write(`
		DELETE FROM states_meta
		WHERE entity_id = ?`, dup); err != nil {
		return err
	}

	if s.ex.DryRun() {
		s.log.Info("dry-run: merge simulated", "sensor", name, "duplicate", dup)
	} else {
		s.log.Info("merged duplicate sensor", "sensor", name, "duplicate", dup)
	}
	return nil
}

// MergeAll merges every duplicate-suffixed sensor found in the statistics
// metadata back into its base sensor. Known false positives (multi-phase
// electric meter channels) are skipped, and a skipped or missing
// candidate does not stop the batch.
func (s *Service) MergeAll() error {
	candidates, err := sensor.ListDuplicates(s.ex)
	if err != nil {
		return err
	}
	s.log.Info("found duplicate sensor candidates", "count", len(candidates))

	for _, name := range candidates {
		if strings.HasPrefix(name, mergeAllExclusionPrefix) {
			s.log.Info("skipping multi-phase meter sensor", "sensor", name)
			continue
		}
		base := strings.TrimSuffix(name, sensor.DuplicateSuffix)
		if err := s.MergeSensor(base); err != nil {
			return err
		}
	}
	return nil
}

// resolveLogged resolves a sensor name, logging precondition failures.
// ok is false when the operation should abort without an error.
func (s *Service) resolveLogged(name string) (int64, bool, error) {
	res, err := sensor.Resolve(s.ex, name)
	if err != nil {
		return 0, false, err
	}
	switch res.Outcome {
	case sensor.NotFound:
		s.log.Error("sensor not found", "sensor", name)
		return 0, false, nil
	case sensor.Ambiguous:
		s.log.Error("multiple sensors with the same name found", "sensor", name)
		return 0, false, nil
	}
	return res.ID, true, nil
}
