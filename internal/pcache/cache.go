package pcache

import (
	"bufio"
	"container/list"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/logging"
)

// lru is an LRU cache for Partitions. Partitions beyond its capacity are
// serialized to disk, and are read back (and removed from disk) by Get.
type lru struct {
	config     *LRUConfig
	lock       sync.Mutex
	pmap       map[string]*list.Element
	recentList *list.List // back is oldest, front is newest
	spilled    map[string]string
	diskDir    string
}

type cachedPartition struct {
	key   string
	value sifread.Partition
}

// LRUConfig configures an LRU PartitionCache
type LRUConfig struct {
	Size       int                         // the number of partitions retained in memory
	DiskPath   string                      // the parent directory for spilled partitions
	Schema     sifread.Schema              // the Schema of every cached Partition
	Serializer sifread.PartitionSerializer // how spilled partitions are compressed
	Logger     *logging.Logger
}

// NewLRU produces an LRU PartitionCache, creating a private spill directory within config.DiskPath
func NewLRU(config *LRUConfig) (PartitionCache, error) {
	if config.Size < 1 {
		return nil, fmt.Errorf("LRUConfig.Size %d must be at least 1", config.Size)
	}
	if config.Schema == nil {
		return nil, fmt.Errorf("LRUConfig.Schema must not be nil")
	}
	if config.Serializer == nil {
		return nil, fmt.Errorf("LRUConfig.Serializer must not be nil")
	}
	diskPath := config.DiskPath
	if len(diskPath) == 0 {
		diskPath = os.TempDir()
	}
	if err := os.MkdirAll(diskPath, 0755); err != nil {
		return nil, err
	}
	diskDir, err := os.MkdirTemp(diskPath, "sifread-spill-")
	if err != nil {
		return nil, err
	}
	return &lru{
		config:     config,
		pmap:       make(map[string]*list.Element),
		recentList: list.New(),
		spilled:    make(map[string]string),
		diskDir:    diskDir,
	}, nil
}

// Destroy removes every spilled partition from disk
func (c *lru) Destroy() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.pmap = make(map[string]*list.Element)
	c.recentList.Init()
	c.spilled = make(map[string]string)
	return os.RemoveAll(c.diskDir)
}

// CurrentSize returns the number of partitions held in memory
func (c *lru) CurrentSize() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.recentList.Len()
}

// NumSpilled returns the number of partitions currently on disk
func (c *lru) NumSpilled() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.spilled)
}

func (c *lru) Add(key string, value sifread.Partition) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.pmap[key]; ok {
		return fmt.Errorf("Partition %s is already in the cache", key)
	}
	if _, ok := c.spilled[key]; ok {
		return fmt.Errorf("Partition %s is already in the cache", key)
	}
	c.pmap[key] = c.recentList.PushFront(&cachedPartition{
		key:   key,
		value: value,
	})
	// if we're full, evict the oldest partition to disk
	for c.recentList.Len() > c.config.Size {
		toRemove := c.recentList.Back()
		c.recentList.Remove(toRemove)
		cp := toRemove.Value.(*cachedPartition)
		delete(c.pmap, cp.key)
		if err := c.evictToDisk(cp); err != nil {
			return err
		}
	}
	return nil
}

// Get removes the partition from the cache and returns it, if present. Returns an error otherwise.
func (c *lru) Get(key string) (sifread.Partition, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if e, ok := c.pmap[key]; ok {
		delete(c.pmap, key)
		c.recentList.Remove(e)
		return e.Value.(*cachedPartition).value, nil
	}
	if _, ok := c.spilled[key]; ok {
		return c.getFromDisk(key)
	}
	return nil, fmt.Errorf("Partition %s is not in the cache", key)
}

// evictToDisk serializes a partition to the spill directory. Must be called with lock held.
func (c *lru) evictToDisk(cp *cachedPartition) error {
	tempFilePath := filepath.Join(c.diskDir, cp.key)
	f, err := os.Create(tempFilePath)
	if err != nil {
		return fmt.Errorf("Unable to create spill file %s: %w", tempFilePath, err)
	}
	buffered := bufio.NewWriter(f)
	if err := c.config.Serializer.Compress(buffered, cp.value); err != nil {
		f.Close()
		return fmt.Errorf("Unable to spill partition %s: %w", cp.key, err)
	}
	if err := buffered.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	c.spilled[cp.key] = tempFilePath
	c.config.Logger.Debugf("Spilled partition %s to %s", cp.key, tempFilePath)
	return nil
}

// getFromDisk removes the partition from the disk cache and returns it. Must be called with lock held.
func (c *lru) getFromDisk(key string) (sifread.Partition, error) {
	tempFilePath := c.spilled[key]
	f, err := os.Open(tempFilePath)
	if err != nil {
		return nil, fmt.Errorf("Unable to load disk-swapped partition %s: %w", tempFilePath, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.config.Logger.Warnf("Unable to close file %s", tempFilePath)
		}
		if err := os.Remove(tempFilePath); err != nil {
			c.config.Logger.Warnf("Unable to remove file %s", tempFilePath)
		}
	}()
	delete(c.spilled, key)
	part, err := c.config.Serializer.Decompress(bufio.NewReader(f), c.config.Schema)
	if err != nil {
		return nil, fmt.Errorf("Unable to decompress disk-swapped partition %s: %w", tempFilePath, err)
	}
	return part, nil
}
