package service

import (
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/maeulhub/maeul/internal/models"
)

// keyMutex serializes same-process operations on one (user, target) pair via
// hashed lock stripes. This only orders callers inside a single server
// instance; cross-instance ordering comes from the store's compare-and-set
// on the reaction row and atomic counter increments.
const lockStripes = 64

type keyMutex struct {
	stripes [lockStripes]sync.Mutex
}

func (m *keyMutex) lock(key string) func() {
	h := fnv.New32a()
	h.Write([]byte(key))
	stripe := &m.stripes[h.Sum32()%lockStripes]
	stripe.Lock()
	return stripe.Unlock
}

func reactionLockKey(userID int64, target models.Target) string {
	return strconv.FormatInt(userID, 10) + "/" + string(target.Type) + "/" + strconv.FormatInt(target.ID, 10)
}
