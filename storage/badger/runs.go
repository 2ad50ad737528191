package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/newsprep/core"
	"github.com/poiesic/newsprep/storage"
)

// RunRepository implements storage.RunRepository for BadgerDB.
type RunRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.RunRepository = (*RunRepository)(nil)

// NewRunRepository creates a new RunRepository.
func NewRunRepository(backend *Backend) (storage.RunRepository, error) {
	idSeq, err := backend.GetSequence(runIDSeq)
	if err != nil {
		return nil, err
	}

	return &RunRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *RunRepository) Close() error {
	return r.idSeq.Release()
}

// AddRun stores a new run and assigns it the next ID from the sequence.
func (r *RunRepository) AddRun(ctx context.Context, run *core.Run) (*core.Run, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		run.Id = core.ID(nextID)

		if run.StartedAt.IsZero() {
			run.StartedAt = time.Now().UTC()
		}
		if run.Status == "" {
			run.Status = core.RunStatusRunning
		}

		if err := tx.Set(makeRunKey(run.Id), storage.MarshalRun(run)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.backend.logger.Debug("run added", "run_id", run.Id)
	return run, nil
}

// UpdateRun replaces an existing run.
func (r *RunRepository) UpdateRun(ctx context.Context, run *core.Run) (*core.Run, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRunKey(run.Id)

		old, err := r.readRun(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return fmt.Errorf("%w: run %d", storage.ErrNotFound, run.Id)
		}

		if err := tx.Set(key, storage.MarshalRun(run)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetRun retrieves a single run by ID.
func (r *RunRepository) GetRun(ctx context.Context, id core.ID) (*core.Run, error) {
	var result *core.Run
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readRun(tx, makeRunKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: run %d", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	return result, err
}

// ListRuns retrieves up to limit runs ordered by ID descending.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*core.Run, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", storage.ErrInvalidQuery, limit)
	}

	var results []*core.Run
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = runPrefix()

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(lastRunKey()); iter.ValidForPrefix(opts.Prefix); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			var run *core.Run
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				run, err = storage.UnmarshalRun(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, run)
		}
		return nil
	}, false)

	return results, err
}

// readRun returns nil, nil when the key is absent.
func (r *RunRepository) readRun(tx *badger.Txn, key []byte) (*core.Run, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var run *core.Run
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		run, unmarshalErr = storage.UnmarshalRun(val)
		return unmarshalErr
	})
	return run, err
}
