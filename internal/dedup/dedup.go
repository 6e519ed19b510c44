package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type sentEntry struct {
	Recipient string `json:"recipient"`
	Timestamp int64  `json:"timestamp"`
}

// RecipientCache remembers which addresses were emailed in the last 30 days.
type RecipientCache struct {
	mu       sync.Mutex
	filePath string
	sent     map[string]int64
	now      func() time.Time
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// NewRecipientCache creates or loads the cache stored in cacheDir
func NewRecipientCache(cacheDir string) *RecipientCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &RecipientCache{
		filePath: filepath.Join(cacheDir, "sent_recipients.json"),
		sent:     make(map[string]int64),
		now:      time.Now,
	}
	cache.load()
	return cache
}

// LastSent returns when recipient was last emailed.
func (rc *RecipientCache) LastSent(recipient string) (time.Time, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	ts, exists := rc.sent[normalize(recipient)]
	if !exists {
		return time.Time{}, false
	}
	return time.UnixMilli(ts), true
}

// MarkSent records recipient as emailed now and saves the cache.
func (rc *RecipientCache) MarkSent(recipient string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.sent[normalize(recipient)] = rc.now().UnixMilli()
	rc.save()
}

func normalize(recipient string) string {
	return strings.ToLower(strings.TrimSpace(recipient))
}

// load reads the cache from disk, dropping entries older than 30 days
func (rc *RecipientCache) load() {
	data, err := os.ReadFile(rc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read sent_recipients.json: %v", err)
		}
		return
	}

	var entries []sentEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse sent_recipients.json: %v", err)
		return
	}

	thirtyDaysAgo := rc.now().UnixMilli() - thirtyDaysMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > thirtyDaysAgo {
			rc.sent[e.Recipient] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously emailed recipients (%d expired and removed)", loaded, len(entries)-loaded)
}

// save writes the current cache to disk
func (rc *RecipientCache) save() {
	entries := make([]sentEntry, 0, len(rc.sent))
	for recipient, ts := range rc.sent {
		entries = append(entries, sentEntry{Recipient: recipient, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal sent recipients: %v", err)
		return
	}
	if err := os.WriteFile(rc.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write sent_recipients.json: %v", err)
	}
}
