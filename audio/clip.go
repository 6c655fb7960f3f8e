package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// ErrClipNotFound is returned when no audio file exists for a voice key
var ErrClipNotFound = errors.New("voice clip not found")

const resampleQuality = 4

// clipCache decodes voice clips on first use and keeps them resident
type clipCache struct {
	mu    sync.RWMutex
	root  string
	rate  beep.SampleRate
	clips map[string]*beep.Buffer
}

func newClipCache(root string, rate beep.SampleRate) *clipCache {
	return &clipCache{root: root, rate: rate, clips: make(map[string]*beep.Buffer)}
}

// path maps a voice key to <root>/<key>.wav
func (c *clipCache) path(key string) string {
	return filepath.Join(c.root, filepath.FromSlash(key)+".wav")
}

// get returns the buffered clip for key, decoding it on a miss
// Failed loads are not cached so a file added later is picked up
func (c *clipCache) get(key string) (*beep.Buffer, error) {
	c.mu.RLock()
	buf, ok := c.clips[key]
	c.mu.RUnlock()
	if ok {
		return buf, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if buf, ok := c.clips[key]; ok {
		return buf, nil
	}

	buf, err := c.load(key)
	if err != nil {
		return nil, err
	}
	c.clips[key] = buf
	return buf, nil
}

func (c *clipCache) load(key string) (*beep.Buffer, error) {
	f, err := os.Open(c.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrClipNotFound, key)
		}
		return nil, fmt.Errorf("open clip %s: %w", key, err)
	}
	defer f.Close()

	stream, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode clip %s: %w", key, err)
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != c.rate {
		src = beep.Resample(resampleQuality, format.SampleRate, c.rate, stream)
		format.SampleRate = c.rate
	}

	buf := beep.NewBuffer(format)
	buf.Append(src)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("read clip %s: %w", key, err)
	}
	return buf, nil
}

// len reports cached clip count
func (c *clipCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clips)
}
