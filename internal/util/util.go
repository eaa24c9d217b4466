package util

import (
	"runtime"
	"sync"
)

// WorkerCount returns the number of workers for concurrent operations.
func WorkerCount() int {
	return runtime.NumCPU()
}

// Parallel runs fn concurrently for each item in inputs, limited by
// workerLimit. It returns the error of the earliest failing input.
func Parallel[T any](inputs []T, workerLimit int, fn func(T) error) error {
	if len(inputs) == 0 {
		return nil
	}
	if workerLimit < 1 {
		workerLimit = 1
	}

	sem := make(chan struct{}, workerLimit)
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup

	for i, in := range inputs {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, x T) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = fn(x)
		}(i, in)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
