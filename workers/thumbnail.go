package workers

import (
	"log"
	"os"
	"sync"

	"github.com/averyhm/photowellbackend/media"
	"github.com/averyhm/photowellbackend/repository"
)

// ThumbnailJob identifies one photo whose stored thumbnail is missing.
type ThumbnailJob struct {
	PhotoID  int64
	FilePath string
}

// ThumbnailBackfiller retries thumbnail generation for photos that were
// imported without one. Import itself never blocks on this pool; it only
// picks up rows whose thumbnail_data is empty.
type ThumbnailBackfiller struct {
	JobQueue  chan ThumbnailJob
	Photos    repository.PhotoRepositoryInterface
	Generator media.ThumbnailGenerator
	MaxSize   int
	Wg        sync.WaitGroup
	StopChan  chan struct{}
	Pending   map[int64]bool
	Mutex     sync.Mutex
}

func NewThumbnailBackfiller(photos repository.PhotoRepositoryInterface, generator media.ThumbnailGenerator, maxSize, queueSize, numWorkers int) *ThumbnailBackfiller {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	tb := &ThumbnailBackfiller{
		JobQueue:  make(chan ThumbnailJob, queueSize),
		Photos:    photos,
		Generator: generator,
		MaxSize:   maxSize,
		StopChan:  make(chan struct{}),
		Pending:   make(map[int64]bool),
	}

	tb.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go tb.worker(i)
	}
	log.Printf("started %d thumbnail backfill worker(s) with queue size %d", numWorkers, queueSize)

	return tb
}

func (tb *ThumbnailBackfiller) worker(id int) {
	defer tb.Wg.Done()
	for {
		select {
		case job, ok := <-tb.JobQueue:
			if !ok {
				log.Printf("thumbnail worker %d stopping: job queue closed", id)
				return
			}
			tb.processJob(job)
			tb.Mutex.Lock()
			delete(tb.Pending, job.PhotoID)
			tb.Mutex.Unlock()

		case <-tb.StopChan:
			log.Printf("thumbnail worker %d stopping: stop signal received", id)
			return
		}
	}
}

func (tb *ThumbnailBackfiller) processJob(job ThumbnailJob) {
	if _, err := os.Stat(job.FilePath); os.IsNotExist(err) {
		log.Printf("original file %s not found, skipping thumbnail backfill", job.FilePath)
		return
	}

	data, err := tb.Generator.Generate(job.FilePath, tb.MaxSize)
	if err != nil {
		log.Printf("ERROR generating thumbnail for photo %d (%s): %v", job.PhotoID, job.FilePath, err)
		return
	}

	if err := tb.Photos.UpdateThumbnail(job.PhotoID, data); err != nil {
		log.Printf("ERROR storing thumbnail for photo %d: %v", job.PhotoID, err)
		return
	}

	log.Printf("backfilled thumbnail for photo %d (%s)", job.PhotoID, job.FilePath)
}

// QueueJob enqueues one photo unless it is already pending or the queue is
// full.
func (tb *ThumbnailBackfiller) QueueJob(job ThumbnailJob) bool {
	tb.Mutex.Lock()
	if tb.Pending[job.PhotoID] {
		tb.Mutex.Unlock()
		return false
	}
	tb.Pending[job.PhotoID] = true
	tb.Mutex.Unlock()

	select {
	case tb.JobQueue <- job:
		return true
	default:
		log.Printf("WARNING: thumbnail backfill queue full, dropping job for photo %d", job.PhotoID)
		tb.Mutex.Lock()
		delete(tb.Pending, job.PhotoID)
		tb.Mutex.Unlock()
		return false
	}
}

// QueueMissing scans the catalog for photos without thumbnails and enqueues
// them. Returns the number of jobs queued.
func (tb *ThumbnailBackfiller) QueueMissing() (int, error) {
	photos, err := tb.Photos.ListMissingThumbnails()
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, p := range photos {
		if tb.QueueJob(ThumbnailJob{PhotoID: p.ID, FilePath: p.FilePath}) {
			queued++
		}
	}
	if queued > 0 {
		log.Printf("queued %d photo(s) for thumbnail backfill", queued)
	}
	return queued, nil
}

func (tb *ThumbnailBackfiller) Stop() {
	log.Println("stopping thumbnail backfiller...")
	close(tb.StopChan)
	tb.Wg.Wait()
	log.Println("all thumbnail workers stopped")
}
