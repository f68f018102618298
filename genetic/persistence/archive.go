package persistence

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"gopkg.in/yaml.v3"
)

const runKeyPrefix = "run/"

// manifestFile is written by badger when a database is first created
const manifestFile = "MANIFEST"

// Archive is the embedded run history store
// Each run is one key "run/<id>" holding the YAML encoded RunDTO
type Archive struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLogger adapts slog.Logger to badger's Logger interface
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenArchive opens or creates the archive directory at path
func OpenArchive(path string, logger *slog.Logger) (*Archive, error) {
	if path == "" {
		return nil, errors.New("archive path is required")
	}
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("create archive directory %s: %w", path, err)
	}
	return openArchive(badger.DefaultOptions(path).WithSyncWrites(true), logger)
}

// ArchiveExists reports whether path holds an archive, without creating anything
func ArchiveExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(path, manifestFile))
	return err == nil
}

// OpenMemoryArchive opens an archive that lives only as long as the process
func OpenMemoryArchive(logger *slog.Logger) (*Archive, error) {
	return openArchive(badger.DefaultOptions("").WithInMemory(true), logger)
}

func openArchive(opts badger.Options, logger *slog.Logger) (*Archive, error) {
	opts = opts.WithNumVersionsToKeep(1)
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger.With("component", "archive")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Archive{db: db, logger: logger}, nil
}

// SaveRun stores a run, replacing any earlier record with the same ID
func (a *Archive) SaveRun(dto RunDTO) error {
	if dto.ID == "" {
		return errors.New("archive: run without id")
	}
	data, err := yaml.Marshal(dto)
	if err != nil {
		return fmt.Errorf("archive: encode run %s: %w", dto.ID, err)
	}

	err = a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(runKeyPrefix+dto.ID), data)
	})
	if err != nil {
		return fmt.Errorf("archive: store run %s: %w", dto.ID, err)
	}

	a.logger.Debug("run archived", "id", dto.ID, "bytes", len(data))
	return nil
}

// LoadRun returns the run stored under id
func (a *Archive) LoadRun(id string) (RunDTO, error) {
	var dto RunDTO
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(runKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%s: %w", id, ErrRunNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return yaml.Unmarshal(val, &dto)
		})
	})
	return dto, err
}

// ListRuns returns the headers of all archived runs, oldest first
func (a *Archive) ListRuns() ([]Header, error) {
	var headers []Header
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var dto RunDTO
				if err := yaml.Unmarshal(val, &dto); err != nil {
					return fmt.Errorf("decode %s: %w", item.Key(), err)
				}
				headers = append(headers, dto.Header())
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("archive: list runs: %w", err)
	}

	sort.SliceStable(headers, func(i, j int) bool {
		return headers[i].StartedAt.Before(headers[j].StartedAt)
	})
	return headers, nil
}

// Close releases the underlying store
func (a *Archive) Close() error {
	return a.db.Close()
}
