// Package transfer exports the store as CSV and imports a CSV back into it.
package transfer

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tracklit/internal/codec"
	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/eviction"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage"
	"github.com/julianstephens/tracklit/internal/tracker"
)

const MIMEType = constants.ExportMIMEType

var ErrValidation = errors.New("import rejected")

// ValidationError reports an import too large to fit the store.
type ValidationError struct {
	Size     int
	Capacity int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("import rejected: payload needs %d bytes but the store holds at most %d", e.Size, e.Capacity)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Hint() string {
	return "import a smaller file or set retention_days to drop old history"
}

// Export reads a consistent snapshot and encodes it.
func Export(store storage.Provider, now time.Time) (string, error) {
	snap, err := tracker.Read(store)
	if err != nil {
		return "", err
	}
	return codec.Encode(snap, now), nil
}

// FileName is the suggested name for an export made at now.
func FileName(now time.Time) string {
	return constants.ExportFilePrefix + models.DateKey(now) + ".csv"
}

// Options tune an import. A zero Capacity falls back to the store's own.
type Options struct {
	Capacity  int
	Retention eviction.Policy
	Today     string
}

// Result summarizes a completed import.
type Result struct {
	ID       string
	Snapshot models.Snapshot
	Keys     int
	Bytes    int
	Evicted  int
}

// Import decodes text and writes it over the store. Nothing is written
// when decoding or size validation fails. If any write fails the store is
// put back to exactly what it held before the import began.
func Import(store storage.Provider, text string, opts Options) (Result, error) {
	res := Result{ID: uuid.NewString()}
	log := logger.With("import_id", res.ID)

	snap, err := codec.Decode(text)
	if err != nil {
		return res, err
	}
	if opts.Retention.Enabled() {
		today := opts.Today
		if today == "" {
			today = models.Today()
		}
		snap, res.Evicted = opts.Retention.Apply(snap, today)
	}
	res.Snapshot = snap

	writes, err := tracker.Writes(snap)
	if err != nil {
		return res, err
	}
	res.Keys = len(writes)
	res.Bytes = tracker.WriteSize(writes)

	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = store.Capacity()
	}
	if capacity > 0 && res.Bytes > capacity {
		return res, &ValidationError{Size: res.Bytes, Capacity: capacity}
	}

	pre, err := store.All()
	if err != nil {
		return res, fmt.Errorf("failed to back up store: %w", err)
	}
	log.Info("Importing", "keys", res.Keys, "bytes", res.Bytes, "evicted", res.Evicted)

	if err := tracker.Apply(store, writes); err != nil {
		log.Error("Import failed, restoring previous data", "error", err)
		if rbErr := Restore(store, pre, keysOf(writes)); rbErr != nil {
			log.Error("Rollback incomplete", "error", rbErr)
			return res, fmt.Errorf("import failed: %w (rollback incomplete: %v)", err, rbErr)
		}
		return res, fmt.Errorf("import failed, previous data restored: %w", err)
	}
	return res, nil
}

func keysOf(m map[string]*string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// Restore puts keys back to their values in pre, deleting those pre lacks.
// Deletes run first and sets run largest shrink first, so a full store
// never needs more room than pre did. Every key is attempted even after a
// failure.
func Restore(store storage.Provider, pre map[string]string, keys []string) error {
	cur, err := store.All()
	if err != nil {
		cur = map[string]string{}
	}

	type restore struct {
		key   string
		value string
		delta int
	}
	var sets []restore
	var errs []error

	sort.Strings(keys)
	for _, k := range keys {
		old, existed := pre[k]
		if !existed {
			if err := store.Delete(k); err != nil {
				errs = append(errs, fmt.Errorf("delete %s: %w", k, err))
			}
			continue
		}
		if v, ok := cur[k]; ok && v == old {
			continue
		}
		sets = append(sets, restore{key: k, value: old, delta: len(old) - len(cur[k])})
	}

	sort.SliceStable(sets, func(i, j int) bool { return sets[i].delta < sets[j].delta })
	for _, r := range sets {
		if err := store.Set(r.key, r.value); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", r.key, err))
		}
	}
	return errors.Join(errs...)
}
