package tessplay

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 250 * time.Millisecond

// bundleWatcher calls onChange once a burst of writes to one file settles.
type bundleWatcher struct {
	watcher   *fsnotify.Watcher
	filePath  string
	debounce  time.Duration
	onChange  func()
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
	stopped   bool
}

// newBundleWatcher watches filePath's directory, so editors and exporters
// that replace the file by rename are still seen.
func newBundleWatcher(filePath string, debounce time.Duration, onChange func(), onError func(error)) (*bundleWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		watcher.Close()
		return nil, err
	}

	return &bundleWatcher{
		watcher:   watcher,
		filePath:  filePath,
		debounce:  debounce,
		onChange:  onChange,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine.
func (bw *bundleWatcher) Start() {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.running || bw.stopped {
		return
	}
	bw.running = true
	go bw.watchLoop()
}

// Stop stops the watcher and waits for the loop to exit. It is safe to call
// more than once, and before Start.
func (bw *bundleWatcher) Stop() {
	bw.mu.Lock()
	if bw.stopped {
		bw.mu.Unlock()
		return
	}
	bw.stopped = true
	running := bw.running
	bw.mu.Unlock()

	close(bw.stopCh)
	if running {
		<-bw.stoppedCh
	} else {
		bw.watcher.Close()
	}
}

func (bw *bundleWatcher) matches(name string) bool {
	if filepath.Base(name) != filepath.Base(bw.filePath) {
		return false
	}
	a, errA := filepath.Abs(name)
	b, errB := filepath.Abs(bw.filePath)
	return errA != nil || errB != nil || a == b
}

func (bw *bundleWatcher) watchLoop() {
	defer close(bw.stoppedCh)
	defer bw.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-bw.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-bw.watcher.Events:
			if !ok {
				return
			}
			if !bw.matches(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(bw.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			if bw.onChange != nil {
				bw.onChange()
			}

		case err, ok := <-bw.watcher.Errors:
			if !ok {
				return
			}
			if bw.onError != nil {
				bw.onError(err)
			}
		}
	}
}
