package database

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

const utf8BOM = "\ufeff"

// CSVStore reads and writes the dashboard tables as CSV files under one directory.
// A table is looked up in dir first and then in dir/data.
type CSVStore struct {
	dir    string
	cache  *TableCache
	logger *logrus.Logger
}

// NewCSVStore creates a store rooted at dir
func NewCSVStore(dir string, cache *TableCache, logger *logrus.Logger) *CSVStore {
	if cache == nil {
		cache = NewTableCache(DefaultCacheTTL)
	}
	return &CSVStore{
		dir:    dir,
		cache:  cache,
		logger: logger,
	}
}

// Cache returns the store's read cache
func (s *CSVStore) Cache() *TableCache {
	return s.cache
}

// Path returns the file backing a table
func (s *CSVStore) Path(name models.TableName) string {
	file := string(name) + ".csv"
	primary := filepath.Join(s.dir, file)
	if _, err := os.Stat(primary); err == nil {
		return primary
	}
	fallback := filepath.Join(s.dir, "data", file)
	if _, err := os.Stat(fallback); err == nil {
		return fallback
	}
	return primary
}

// Load returns a private copy of a table, served from the cache while it is fresh.
// A missing file yields an empty table with the default header.
func (s *CSVStore) Load(name models.TableName) (*models.Table, error) {
	path := s.Path(name)
	if t, _, ok := s.cache.Get(path); ok {
		return t.Clone(), nil
	}

	gen := s.cache.Generation(path)
	t, err := readTable(name, path)
	if err != nil {
		return nil, err
	}
	s.cache.PutIfCurrent(path, t, gen)
	return t.Clone(), nil
}

// LoadOrEmpty is Load for read-only queries: an unreadable table is logged and
// treated as empty
func (s *CSVStore) LoadOrEmpty(name models.TableName) *models.Table {
	t, err := s.Load(name)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"table": name,
			"path":  s.Path(name),
		}).Warn("Unreadable table, treating as empty")
		return models.EmptyTable(name)
	}
	return t
}

// Save overwrites the table's file and invalidates its cache entry.
// The file is written to a temporary sibling first and renamed into place.
func (s *CSVStore) Save(t *models.Table) error {
	if t == nil {
		return errors.New("table cannot be nil")
	}
	path := s.Path(t.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return fmt.Errorf("failed to encode %s: %w", t.Name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+string(t.Name)+"-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", t.Name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", t.Name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	s.cache.Invalidate(path)
	t.MarkClean()

	s.logger.WithFields(logrus.Fields{
		"table": t.Name,
		"rows":  t.Len(),
		"path":  path,
	}).Debug("Table saved")

	return nil
}

func readTable(name models.TableName, path string) (*models.Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return models.EmptyTable(name), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(name, f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV decodes a CSV stream into a table. The first record is the header.
// Rows may have fewer or more fields than the header.
func ReadCSV(name models.TableName, r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.EmptyTable(name), nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	t := models.NewTable(name, header)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

// WriteCSV encodes a table with its header. Short rows are padded to the header width.
func WriteCSV(w io.Writer, t *models.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		copy(record, row)
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
