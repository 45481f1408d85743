package sensor

import (
	"fmt"
	"log/slog"

	"github.com/cgrohmann/hadbmaint/internal/dbexec"
)

// extremum holds the created_ts/start_ts pair of a sensor's newest or
// oldest statistics row.
type extremum struct {
	createdTS float64
	startTS   float64
}

// CheckOrdering verifies that reassigning data from the old sensor to the
// new sensor keeps the merged series strictly ordered: the new sensor's
// earliest row must be strictly newer than the old sensor's latest row,
// on both created_ts and start_ts.
//
// Only the single most-extreme row at each end is compared; an old sensor
// that resumed emitting after the new one started is not detected.
//
// It returns false when a violation was found (already logged, abort the
// operation) and a non-nil error only for driver failures.
func CheckOrdering(ex *dbexec.Executor, log *slog.Logger, oldID, newID int64, oldName, newName string) (bool, error) {
	if oldID == newID {
		log.Error("old and new sensor have the same id", "id", oldID, "old", oldName, "new", newName)
		return false, nil
	}

	oldExt, ok, err := queryExtremum(ex, oldID, "DESC")
	if err != nil {
		return false, err
	}
	if !ok {
		log.Error("sensor has no statistics rows", "sensor", oldName, "id", oldID)
		return false, nil
	}

	newExt, ok, err := queryExtremum(ex, newID, "ASC")
	if err != nil {
		return false, err
	}
	if !ok {
		log.Error("sensor has no statistics rows", "sensor", newName, "id", newID)
		return false, nil
	}

	switch {
	case newExt.createdTS < oldExt.createdTS:
		log.Error("first created_ts of the new sensor is older than the last created_ts of the old sensor",
			"new_created_ts", newExt.createdTS, "new", newName,
			"old_created_ts", oldExt.createdTS, "old", oldName)
		return false, nil
	case newExt.createdTS == oldExt.createdTS:
		log.Error("first created_ts of the new sensor is equal to the last created_ts of the old sensor",
			"new_created_ts", newExt.createdTS, "new", newName,
			"old_created_ts", oldExt.createdTS, "old", oldName)
		return false, nil
	case newExt.startTS < oldExt.startTS:
		log.Error("first start_ts of the new sensor is older than the last start_ts of the old sensor",
			"new_start_ts", newExt.startTS, "new", newName,
			"old_start_ts", oldExt.startTS, "old", oldName)
		return false, nil
	case newExt.startTS == oldExt.startTS:
		log.Error("first start_ts of the new sensor is equal to the last start_ts of the old sensor",
			"new_start_ts", newExt.startTS, "new", newName,
			"old_start_ts", oldExt.startTS, "old", oldName)
		return false, nil
	}

	log.Info("consistency checks passed", "old", oldName, "new", newName)
	return true, nil
}

// queryExtremum fetches the created_ts/start_ts pair of the newest
// (order "DESC") or oldest (order "ASC") statistics row of a sensor.
// ok is false when the sensor has no statistics rows at all.
func queryExtremum(ex *dbexec.Executor, id int64, order string) (extremum, bool, error) {
	if order != "ASC" && order != "DESC" {
		return extremum{}, false, fmt.Errorf("invalid sort order %q", order)
	}

	rows, err := ex.Query(fmt.Sprintf(`
		SELECT created_ts, start_ts
		FROM statistics
		WHERE metadata_id = ?
		ORDER BY created_ts %s
		LIMIT 1`, order), id)
	if err != nil {
		return extremum{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return extremum{}, false, fmt.Errorf("error fetching timestamp extremum: %w", err)
		}
		return extremum{}, false, nil
	}

	var ext extremum
	if err := rows.Scan(&ext.createdTS, &ext.startTS); err != nil {
		return extremum{}, false, fmt.Errorf("failed to scan timestamp extremum: %w", err)
	}
	return ext, true, nil
}
