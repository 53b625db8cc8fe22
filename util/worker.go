package util

import (
	"sync"

	"github.com/mohitkumar/txwizard/logger"
	"go.uber.org/zap"
)

type Task any

// Worker drains a buffered task channel on one goroutine.
type Worker struct {
	name     string
	capacity int
	stop     chan struct{}
	wg       *sync.WaitGroup
	handler  func(Task) error
	taskChan chan Task
	once     sync.Once
}

func NewWorker(name string, wg *sync.WaitGroup, handler func(Task) error, capacity int) *Worker {
	ch := make(chan Task, capacity)
	stop := make(chan struct{})
	return &Worker{
		taskChan: ch,
		name:     name,
		capacity: capacity,
		wg:       wg,
		stop:     stop,
		handler:  handler,
	}
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		for {
			select {
			case task := <-w.taskChan:
				err := w.handler(task)
				if err != nil {
					logger.Error("error in executing task in worker", zap.String("worker", w.name), zap.Any("task", task), zap.Error(err))
				}
			case <-w.stop:
				logger.Info("stopping worker", zap.String("worker", w.name))
				return
			}
		}
	}()
}

// Offer enqueues without blocking, returning false when the buffer is full.
func (w *Worker) Offer(task Task) bool {
	select {
	case w.taskChan <- task:
		return true
	default:
		logger.Warn("worker queue full, dropping task", zap.String("worker", w.name), zap.Int("capacity", w.capacity))
		return false
	}
}

func (w *Worker) Sender() chan<- Task {
	return w.taskChan
}

func (w *Worker) Stop() {
	w.once.Do(func() {
		close(w.stop)
	})
}
