package dlq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultPath is the spool directory used when none is configured.
const DefaultPath = "/var/lib/lotwire/dlq"

// FileQueue spools failed deliveries as one JSON file each, named
// failed_<unix>_<n>.json. Suited to single-instance deployments; a
// shared JetStream queue covers the rest.
type FileQueue struct {
	basePath string
	written  uint64
	counter  uint64
}

// NewFileQueue creates the spool directory if needed.
func NewFileQueue(basePath string) (*FileQueue, error) {
	if basePath == "" {
		basePath = DefaultPath
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create dlq directory: %w", err)
	}

	return &FileQueue{basePath: basePath}, nil
}

func (q *FileQueue) Add(ctx context.Context, failed *FailedDelivery) error {
	if q == nil {
		return nil
	}

	if failed.ID == "" {
		failed.ID = uuid.NewString()
	}
	if failed.Timestamp.IsZero() {
		failed.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(failed)
	if err != nil {
		log.Printf("ERROR: failed to marshal DLQ entry: %v", err)
		return err
	}

	name := fmt.Sprintf("failed_%d_%d.json", time.Now().Unix(), atomic.AddUint64(&q.counter, 1))
	if err := os.WriteFile(filepath.Join(q.basePath, name), data, 0o644); err != nil {
		return fmt.Errorf("write dlq entry: %w", err)
	}

	atomic.AddUint64(&q.written, 1)
	return nil
}

func (q *FileQueue) List(ctx context.Context, limit int) ([]FailedDelivery, error) {
	if q == nil {
		return nil, errNotEnabled
	}
	if limit <= 0 {
		limit = 100
	}

	names, err := q.entryNames()
	if err != nil {
		return nil, err
	}

	entries := make([]FailedDelivery, 0, limit)
	for _, name := range names {
		if len(entries) >= limit {
			break
		}

		data, err := os.ReadFile(filepath.Join(q.basePath, name))
		if err != nil {
			log.Printf("ERROR: failed to read DLQ entry %s: %v", name, err)
			continue
		}

		var failed FailedDelivery
		if err := json.Unmarshal(data, &failed); err != nil {
			log.Printf("ERROR: failed to parse DLQ entry %s: %v", name, err)
			continue
		}
		entries = append(entries, failed)
	}

	return entries, nil
}

func (q *FileQueue) Purge(ctx context.Context) error {
	if q == nil {
		return errNotEnabled
	}

	names, err := q.entryNames()
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := os.Remove(filepath.Join(q.basePath, name)); err != nil {
			return fmt.Errorf("purge dlq entry %s: %w", name, err)
		}
	}
	return nil
}

func (q *FileQueue) Stats(ctx context.Context) map[string]interface{} {
	if q == nil {
		return map[string]interface{}{"enabled": false, "backend": "file"}
	}

	stats := map[string]interface{}{
		"enabled":   true,
		"backend":   "file",
		"base_path": q.basePath,
		"written":   atomic.LoadUint64(&q.written),
	}

	names, err := q.entryNames()
	if err != nil {
		stats["error"] = err.Error()
		return stats
	}
	stats["pending"] = len(names)

	byReason := make(map[string]int)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(q.basePath, name))
		if err != nil {
			continue
		}
		var failed FailedDelivery
		if err := json.Unmarshal(data, &failed); err != nil {
			continue
		}
		byReason[failed.Reason]++
	}
	stats["by_reason"] = byReason

	return stats
}

func (q *FileQueue) Close() error {
	return nil
}

// entryNames returns spool file names in write order.
func (q *FileQueue) entryNames() ([]string, error) {
	dir, err := os.ReadDir(q.basePath)
	if err != nil {
		return nil, fmt.Errorf("read dlq directory: %w", err)
	}

	names := make([]string, 0, len(dir))
	for _, entry := range dir {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "failed_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
