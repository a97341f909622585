package database

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, dir string) *CSVStore {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewCSVStore(dir, NewTableCache(time.Minute), logger)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCSVStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	table, err := store.Load(models.TableAppointments)
	require.NoError(t, err)

	assert.True(t, table.IsEmpty())
	assert.Equal(t, models.DefaultColumns[models.TableAppointments], table.Columns)
}

func TestCSVStore_LoadFallsBackToDataDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data", "branches.csv"), "Branch ID,Branch Name\nBR001,Main\n")
	store := newTestStore(t, dir)

	assert.Equal(t, filepath.Join(dir, "data", "branches.csv"), store.Path(models.TableBranches))

	table, err := store.Load(models.TableBranches)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Main", table.Value(0, models.ColBranchName))

	// a file at the root takes precedence
	writeFile(t, filepath.Join(dir, "branches.csv"), "Branch ID,Branch Name\nBR002,Annex\n")
	assert.Equal(t, filepath.Join(dir, "branches.csv"), store.Path(models.TableBranches))
}

func TestCSVStore_LoadStripsBOMAndAcceptsRaggedRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "staff.csv"), "\ufeffStaff ID,Name,Role\nSTF001,Priya\nSTF002,Meena,Stylist,extra\n")
	store := newTestStore(t, dir)

	table, err := store.Load(models.TableStaff)
	require.NoError(t, err)

	assert.Equal(t, "Staff ID", table.Columns[0])
	assert.Equal(t, "STF001", table.Value(0, models.ColStaffID))
	assert.Equal(t, "", table.Value(0, models.ColRole))
	assert.Equal(t, "Stylist", table.Value(1, models.ColRole))
}

func TestCSVStore_LoadReturnsPrivateCopies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "staff.csv"), "Staff ID,Name\nSTF001,Priya\n")
	store := newTestStore(t, dir)

	first, err := store.Load(models.TableStaff)
	require.NoError(t, err)
	first.Set(0, models.ColName, "Changed")

	second, err := store.Load(models.TableStaff)
	require.NoError(t, err)
	assert.Equal(t, "Priya", second.Value(0, models.ColName))
	assert.Equal(t, 1, store.Cache().Len())
}

func TestCSVStore_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)

	table, err := store.Load(models.TableLeaveRecords)
	require.NoError(t, err)
	table.Append(models.LeaveRecord{ID: "LV1000", StaffName: "Priya", Remarks: "family, travel"}.Values())
	require.True(t, table.Dirty())

	require.NoError(t, store.Save(table))
	assert.False(t, table.Dirty())

	content, err := os.ReadFile(filepath.Join(dir, "leave_records.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Leave ID,Staff Name,"))
	assert.Contains(t, string(content), `"family, travel"`)

	reloaded, err := store.Load(models.TableLeaveRecords)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.Len())
	assert.Equal(t, "family, travel", reloaded.Value(0, models.ColRemarks))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestCSVStore_SaveInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "staff.csv"), "Staff ID,Name\nSTF001,Priya\n")
	store := newTestStore(t, dir)

	table, err := store.Load(models.TableStaff)
	require.NoError(t, err)
	table.Append(map[string]string{models.ColStaffID: "STF002", models.ColName: "Meena"})
	require.NoError(t, store.Save(table))

	reloaded, err := store.Load(models.TableStaff)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())
}

func TestCSVStore_SaveNil(t *testing.T) {
	assert.Error(t, newTestStore(t, t.TempDir()).Save(nil))
}

func TestCSVStore_UnreadableTable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "attendance.csv"), 0o755))
	store := newTestStore(t, dir)

	_, err := store.Load(models.TableAttendance)
	assert.Error(t, err)

	table := store.LoadOrEmpty(models.TableAttendance)
	assert.True(t, table.IsEmpty())
	assert.Equal(t, models.DefaultColumns[models.TableAttendance], table.Columns)
}

func TestReadCSV_EmptyStream(t *testing.T) {
	table, err := ReadCSV(models.TableBranches, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultColumns[models.TableBranches], table.Columns)
}

func TestWriteCSV_PadsShortRows(t *testing.T) {
	table := models.NewTable(models.TableBranches, []string{"A", "B", "C"})
	table.Rows = append(table.Rows, []string{"1"})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))
	assert.Equal(t, "A,B,C\n1,,\n", buf.String())
}
