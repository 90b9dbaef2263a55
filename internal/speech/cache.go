package speech

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// Cache keeps recently synthesized audio in memory, evicting the least
// recently used entries once the total PCM size exceeds its capacity.
type Cache struct {
	capacity int64
	size     int64

	items    map[string]*list.Element
	eviction *list.List

	mu sync.Mutex
}

type cacheEntry struct {
	key   string
	audio Audio
}

// NewCache creates a cache holding at most capacity bytes of PCM.
func NewCache(capacity int64) *Cache {
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

// CacheKey identifies the audio a request would produce.
func CacheKey(req Request) string {
	voice := ""
	if req.Voice != nil {
		voice = req.Voice.Identifier + "/" + req.Voice.Name
	}
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%.2f|%.2f", req.Text, voice, req.Language, req.Rate, req.Pitch))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) Get(key string) (Audio, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return Audio{}, false
	}
	c.eviction.MoveToFront(elem)
	return elem.Value.(*cacheEntry).audio, true
}

// Put stores audio under key. Audio larger than the whole cache is not kept.
func (c *Cache) Put(key string, audio Audio) {
	size := int64(len(audio.PCM))
	if size > c.capacity {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.size -= int64(len(elem.Value.(*cacheEntry).audio.PCM))
		elem.Value.(*cacheEntry).audio = audio
		c.size += size
		c.eviction.MoveToFront(elem)
	} else {
		c.items[key] = c.eviction.PushFront(&cacheEntry{key: key, audio: audio})
		c.size += size
	}

	for c.size > c.capacity {
		oldest := c.eviction.Back()
		if oldest == nil {
			break
		}
		entry := c.eviction.Remove(oldest).(*cacheEntry)
		delete(c.items, entry.key)
		c.size -= int64(len(entry.audio.PCM))
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Size returns the cached PCM size in bytes.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}
