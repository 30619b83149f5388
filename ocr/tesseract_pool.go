package ocr

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Fixed size set of tesseract instances. Each OCR call borrows one instance.
type TesseractPool struct {
	size         uint32
	workerConfig TesseractConfig
	workers      []*Tesseract

	workLock             *semaphore.Weighted
	poolManipulationLock sync.Mutex
}

func NewTesseractPool(size uint32, workerConfig TesseractConfig) *TesseractPool {
	if size == 0 {
		size = 1
	}
	return &TesseractPool{
		size:         size,
		workerConfig: workerConfig,
		workers:      make([]*Tesseract, 0, size),
		workLock:     semaphore.NewWeighted(int64(size)),
	}
}

func (p *TesseractPool) Init(ctx context.Context) error {
	if err := p.workLock.Acquire(ctx, int64(p.size)); err != nil {
		return errors.Join(errors.New("failed to accuire exclusive lock on entire pool"), err)
	}
	defer p.workLock.Release(int64(p.size))

	p.poolManipulationLock.Lock()
	defer p.poolManipulationLock.Unlock()

	for i := uint32(0); i < p.size; i++ {
		worker := NewTesseract(p.workerConfig)
		if err := worker.Init(ctx); err != nil {
			var allErrors = []error{err}
			for _, w := range p.workers {
				if err := w.Destroy(); err != nil {
					allErrors = append(allErrors, err)
				}
			}
			p.workers = p.workers[:0]

			return errors.Join(allErrors...)
		}
		p.workers = append(p.workers, worker)
	}
	return nil
}

func (p *TesseractPool) Destroy(ctx context.Context) error {
	if err := p.workLock.Acquire(ctx, int64(p.size)); err != nil {
		return errors.Join(errors.New("failed to accuire exclusive lock on entire pool"), err)
	}
	defer p.workLock.Release(int64(p.size))

	p.poolManipulationLock.Lock()
	defer p.poolManipulationLock.Unlock()

	var destroyErrors []error
	for _, w := range p.workers {
		if err := w.Destroy(); err != nil {
			destroyErrors = append(destroyErrors, err)
		}
	}
	p.workers = p.workers[:0]

	return errors.Join(destroyErrors...)
}

func (p *TesseractPool) OCR(ctx context.Context, image io.Reader) (string, error) {
	if err := p.workLock.Acquire(ctx, 1); err != nil {
		return "", errors.Join(errors.New("failed to accuire work lock"), err)
	}
	defer p.workLock.Release(1)

	p.poolManipulationLock.Lock()
	if len(p.workers) == 0 { // in case if it is not initialized
		p.poolManipulationLock.Unlock()
		return "", errors.New("pool is empty")
	}
	worker := p.workers[len(p.workers)-1]
	p.workers = p.workers[:len(p.workers)-1]
	p.poolManipulationLock.Unlock()

	resultString, resultErr := worker.OCR(ctx, image)

	p.poolManipulationLock.Lock()
	p.workers = append(p.workers, worker)
	p.poolManipulationLock.Unlock()

	return resultString, resultErr
}

func (p *TesseractPool) IsMimeTypeSupported(mimeType string) bool {
	return slices.Contains(p.workerConfig.SupportedImageFormats, mimeType)
}
