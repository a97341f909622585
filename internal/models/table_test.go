package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_ValueHandlesRaggedRows(t *testing.T) {
	table := NewTable(TableStaff, []string{"A", "B", "C"})
	table.Rows = [][]string{{" x ", "y"}}

	assert.Equal(t, "x", table.Value(0, "A"))
	assert.Equal(t, "y", table.Value(0, "B"))
	assert.Equal(t, "", table.Value(0, "C"))
	assert.Equal(t, "", table.Value(0, "missing"))
	assert.Equal(t, "", table.Value(5, "A"))
	assert.False(t, table.Has("missing"))
}

func TestTable_SetGrowsHeaderAndRow(t *testing.T) {
	table := NewTable(TableStaff, []string{"A"})
	table.Rows = [][]string{{"1"}}

	table.Set(0, "B", "2")
	table.Set(3, "A", "ignored")

	assert.Equal(t, []string{"A", "B"}, table.Columns)
	assert.Equal(t, []string{"1", "2"}, table.Rows[0])
	assert.True(t, table.Dirty())

	table.MarkClean()
	assert.False(t, table.Dirty())
}

func TestTable_AppendAndFind(t *testing.T) {
	table := NewTable(TableAppointments, []string{ColAppointmentID})

	i := table.Append(map[string]string{ColAppointmentID: "APT1000", ColStatus: "Confirmed"})

	assert.Equal(t, 0, i)
	assert.Equal(t, []string{ColAppointmentID, ColStatus}, table.Columns)
	assert.Equal(t, 0, table.FindRow(ColAppointmentID, "APT1000"))
	assert.Equal(t, -1, table.FindRow(ColAppointmentID, "APT9999"))
	assert.Equal(t, -1, table.FindRow("nope", "APT1000"))
	assert.Equal(t, map[string]string{ColAppointmentID: "APT1000", ColStatus: "Confirmed"}, table.Record(0))
}

func TestTable_CloneIsDeep(t *testing.T) {
	table := NewTable(TableStaff, []string{"A"})
	table.Append(map[string]string{"A": "1"})

	clone := table.Clone()
	clone.Set(0, "A", "2")

	assert.Equal(t, "1", table.Value(0, "A"))
	assert.False(t, table.Clone().Dirty())
	assert.Nil(t, (*Table)(nil).Clone())
}

func TestTable_NilSafe(t *testing.T) {
	var table *Table

	assert.Equal(t, 0, table.Len())
	assert.True(t, table.IsEmpty())
	assert.False(t, table.Has("A"))
	assert.Equal(t, "", table.Value(0, "A"))
	records := table.Records()
	require.NotNil(t, records)
	assert.Empty(t, records)
}

func TestIsNull(t *testing.T) {
	for _, v := range []string{"", "  ", "nan", "NaN", "None", "null", "NaT", "<NA>"} {
		assert.True(t, IsNull(v), v)
	}
	for _, v := range []string{"0", "false", "Nancy", "-"} {
		assert.False(t, IsNull(v), v)
	}
}

func TestNullString(t *testing.T) {
	table := NewTable(TableStaff, []string{"A"})
	table.Rows = [][]string{{"nan"}, {"Priya"}}

	assert.False(t, table.NullString(0, "A").Valid)
	assert.Equal(t, "Priya", table.NullString(1, "A").String)
}

func TestAppointment_DurationAndStatus(t *testing.T) {
	tests := []struct {
		duration string
		minutes  int
		ok       bool
	}{
		{"60", 60, true},
		{"45.0", 45, true},
		{"0", 0, false},
		{"-30", -30, false},
		{"abc", 0, false},
	}
	for _, tc := range tests {
		minutes, ok := Appointment{Duration: tc.duration}.DurationMinutes()
		assert.Equal(t, tc.ok, ok, tc.duration)
		if tc.ok {
			assert.Equal(t, tc.minutes, minutes)
		}
	}

	assert.True(t, IsActiveAppointmentStatus(" confirmed "))
	assert.True(t, IsActiveAppointmentStatus("PENDING"))
	assert.False(t, IsActiveAppointmentStatus("Cancelled"))
	assert.False(t, IsActiveAppointmentStatus(""))
}
