package sensor_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cgrohmann/hadbmaint/internal/dbexec"
	"github.com/cgrohmann/hadbmaint/internal/sensor"
	"github.com/cgrohmann/hadbmaint/internal/testutil"
)

func checkFixture(t *testing.T) (*dbexec.Executor, *bytes.Buffer) {
	t.Helper()
	database, _ := testutil.TempDB(t)
	testutil.InsertStatSensor(t, database, 1, "sensor.old")
	testutil.InsertStatSensor(t, database, 2, "sensor.new")
	var logBuf bytes.Buffer
	ex := dbexec.New(database, true, testutil.NewTestLogger(&logBuf))
	return ex, &logBuf
}

func TestCheckOrderingSameID(t *testing.T) {
	ex, logBuf := checkFixture(t)

	ok, err := sensor.CheckOrdering(ex, ex.Logger(), 1, 1, "sensor.old", "sensor.old")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, false, ok)
	if !strings.Contains(logBuf.String(), "same id") {
		t.Errorf("Expected same-id violation in log, got: %s", logBuf.String())
	}
}

func TestCheckOrderingViolations(t *testing.T) {
	tests := []struct {
		name    string
		old     [2]float64 // created_ts, start_ts of old sensor's only row
		new     [2]float64
		ok      bool
		logWant string
	}{
		{
			name:    "new created older than old",
			old:     [2]float64{200, 200},
			new:     [2]float64{100, 300},
			ok:      false,
			logWant: "created_ts of the new sensor is older",
		},
		{
			name:    "created equal",
			old:     [2]float64{200, 200},
			new:     [2]float64{200, 300},
			ok:      false,
			logWant: "created_ts of the new sensor is equal",
		},
		{
			name:    "new start older than old",
			old:     [2]float64{100, 150},
			new:     [2]float64{200, 100},
			ok:      false,
			logWant: "start_ts of the new sensor is older",
		},
		{
			name:    "start equal",
			old:     [2]float64{100, 150},
			new:     [2]float64{200, 150},
			ok:      false,
			logWant: "start_ts of the new sensor is equal",
		},
		{
			name:    "strictly ordered",
			old:     [2]float64{100, 100},
			new:     [2]float64{200, 200},
			ok:      true,
			logWant: "consistency checks passed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database, _ := testutil.TempDB(t)
			testutil.InsertStatSensor(t, database, 1, "sensor.old")
			testutil.InsertStatSensor(t, database, 2, "sensor.new")
			testutil.InsertSample(t, database, "statistics", 1, tt.old[0], tt.old[1])
			testutil.InsertSample(t, database, "statistics", 2, tt.new[0], tt.new[1])

			var logBuf bytes.Buffer
			ex := dbexec.New(database, true, testutil.NewTestLogger(&logBuf))

			ok, err := sensor.CheckOrdering(ex, ex.Logger(), 1, 2, "sensor.old", "sensor.new")
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, tt.ok, ok)
			if !strings.Contains(logBuf.String(), tt.logWant) {
				t.Errorf("Expected log to contain %q, got: %s", tt.logWant, logBuf.String())
			}
		})
	}
}

func TestCheckOrderingNoSamples(t *testing.T) {
	ex, logBuf := checkFixture(t)

	ok, err := sensor.CheckOrdering(ex, ex.Logger(), 1, 2, "sensor.old", "sensor.new")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, false, ok)
	if !strings.Contains(logBuf.String(), "no statistics rows") {
		t.Errorf("Expected missing-samples violation in log, got: %s", logBuf.String())
	}
}

// Known gap: only the extreme rows by created_ts are compared, and the
// start_ts check uses those same rows. A series whose start_ts is not
// monotonic with created_ts can overlap undetected. This documents the
// behavior rather than fixing it.
func TestCheckOrderingInteriorOverlapGap(t *testing.T) {
	database, _ := testutil.TempDB(t)
	testutil.InsertStatSensor(t, database, 1, "sensor.old")
	testutil.InsertStatSensor(t, database, 2, "sensor.new")

	// The old sensor's row with the highest created_ts has a low start_ts,
	// hiding an earlier row whose start_ts overlaps the new sensor's range.
	testutil.InsertSample(t, database, "statistics", 1, 100, 500)
	testutil.InsertSample(t, database, "statistics", 1, 150, 120)
	testutil.InsertSample(t, database, "statistics", 2, 200, 130)

	var logBuf bytes.Buffer
	ex := dbexec.New(database, true, testutil.NewTestLogger(&logBuf))

	ok, err := sensor.CheckOrdering(ex, ex.Logger(), 1, 2, "sensor.old", "sensor.new")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, true, ok)
}
