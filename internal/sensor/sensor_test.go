package sensor_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/cgrohmann/hadbmaint/internal/dbexec"
	"github.com/cgrohmann/hadbmaint/internal/sensor"
	"github.com/cgrohmann/hadbmaint/internal/testutil"
)

func TestResolve(t *testing.T) {
	database, _ := testutil.TempDB(t)
	testutil.InsertStatSensor(t, database, 5, "sensor.temperature")
	testutil.InsertStatSensor(t, database, 6, "sensor.twin")
	testutil.InsertStatSensor(t, database, 7, "sensor.twin")

	ex := dbexec.New(database, true, testutil.NewTestLogger(&bytes.Buffer{}))

	t.Run("found", func(t *testing.T) {
		res, err := sensor.Resolve(ex, "sensor.temperature")
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, sensor.Found, res.Outcome)
		testutil.AssertEqual(t, int64(5), res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		res, err := sensor.Resolve(ex, "sensor.missing")
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, sensor.NotFound, res.Outcome)
	})

	t.Run("ambiguous", func(t *testing.T) {
		res, err := sensor.Resolve(ex, "sensor.twin")
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, sensor.Ambiguous, res.Outcome)
	})
}

func TestListNames(t *testing.T) {
	database, _ := testutil.TempDB(t)
	testutil.InsertStatSensor(t, database, 1, "sensor.power")
	testutil.InsertStatSensor(t, database, 2, "sensor.shared")
	testutil.InsertStateSensor(t, database, 1, "sensor.shared")
	testutil.InsertStateSensor(t, database, 2, "sensor.humidity")
	// Names without the sensor marker are not listed.
	testutil.InsertStateSensor(t, database, 3, "light.kitchen")

	ex := dbexec.New(database, true, testutil.NewTestLogger(&bytes.Buffer{}))

	names, err := sensor.ListNames(ex)
	testutil.AssertNoError(t, err)

	want := []string{"sensor.humidity", "sensor.power", "sensor.shared"}
	if !reflect.DeepEqual(want, names) {
		t.Errorf("Expected %v, got %v", want, names)
	}
}

func TestListDuplicates(t *testing.T) {
	database, _ := testutil.TempDB(t)
	testutil.InsertStatSensor(t, database, 1, "sensor.foo")
	testutil.InsertStatSensor(t, database, 2, "sensor.foo_2")
	testutil.InsertStatSensor(t, database, 3, "sensor.bar_2")
	// The underscore must match literally: a name merely ending in "2"
	// is not a duplicate.
	testutil.InsertStatSensor(t, database, 4, "sensor.co2")

	ex := dbexec.New(database, true, testutil.NewTestLogger(&bytes.Buffer{}))

	names, err := sensor.ListDuplicates(ex)
	testutil.AssertNoError(t, err)

	want := []string{"sensor.bar_2", "sensor.foo_2"}
	if !reflect.DeepEqual(want, names) {
		t.Errorf("Expected %v, got %v", want, names)
	}
}
