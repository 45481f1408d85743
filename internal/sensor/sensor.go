// Package sensor resolves sensor names to their internal metadata ids and
// validates that a proposed data reassignment is safe.
package sensor

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/cgrohmann/hadbmaint/internal/dbexec"
)

// Table names used by the maintenance statements. These are the only
// tables this tool ever touches; nothing user-supplied is ever
// interpolated into a statement.
const (
	TableStatisticsMeta      = "statistics_meta"
	TableStatesMeta          = "states_meta"
	TableStatistics          = "statistics"
	TableStatisticsShortTerm = "statistics_short_term"
	TableStates              = "states"
)

// SampleTables lists the statistics tables holding rows keyed by
// metadata_id, in the order they are rewritten.
var SampleTables = [2]string{TableStatistics, TableStatisticsShortTerm}

// DuplicateSuffix marks sensors that were accidentally re-registered,
// e.g. sensor.foo_2 next to sensor.foo.
const DuplicateSuffix = "_2"

// Outcome classifies the result of a name lookup.
type Outcome int

const (
	// Found means exactly one metadata row matched.
	Found Outcome = iota
	// NotFound means no metadata row matched.
	NotFound
	// Ambiguous means more than one metadata row matched, which signals
	// corrupt metadata.
	Ambiguous
)

// Resolution is the result of resolving a sensor name. ID is only valid
// when Outcome is Found.
type Resolution struct {
	Outcome Outcome
	ID      int64
}

// Resolve looks up the statistics metadata id for a sensor name. The
// returned error is only non-nil for driver failures; missing or
// duplicated names are reported through the Outcome.
func Resolve(ex *dbexec.Executor, name string) (Resolution, error) {
	rows, err := ex.Query(`
		SELECT id
		FROM statistics_meta
		WHERE statistic_id = ?`, name)
	if err != nil {
		return Resolution{}, err
	}
	defer rows.Close()

	var (
		id    int64
		count int
	)
	for rows.Next() {
		count++
		if count == 1 {
			if err := rows.Scan(&id); err != nil {
				return Resolution{}, fmt.Errorf("failed to scan sensor id: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return Resolution{}, fmt.Errorf("error iterating sensor rows: %w", err)
	}

	switch {
	case count == 0:
		return Resolution{Outcome: NotFound}, nil
	case count > 1:
		return Resolution{Outcome: Ambiguous}, nil
	}
	return Resolution{Outcome: Found, ID: id}, nil
}

// ListNames returns all sensor names known to either metadata table,
// deduplicated and sorted ascending.
func ListNames(ex *dbexec.Executor) ([]string, error) {
	rows, err := ex.Query(`
		SELECT statistic_id AS a FROM statistics_meta WHERE statistic_id LIKE '%sensor%'
		UNION
		SELECT entity_id AS a FROM states_meta WHERE entity_id LIKE '%sensor%'
		ORDER BY a ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNames(rows)
}

// ListDuplicates returns the statistics metadata names carrying the
// duplicate suffix, sorted ascending. The underscore in the suffix is
// escaped so it matches literally instead of as a LIKE wildcard.
func ListDuplicates(ex *dbexec.Executor) ([]string, error) {
	pattern := "%" + strings.ReplaceAll(DuplicateSuffix, "_", `\_`)
	rows, err := ex.Query(`
		SELECT statistic_id
		FROM statistics_meta
		WHERE statistic_id LIKE ? ESCAPE '\'
		ORDER BY statistic_id ASC`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNames(rows)
}

func scanNames(rows *sql.Rows) ([]string, error) {
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan sensor name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sensor names: %w", err)
	}
	return names, nil
}
