package channel_utils

import (
	"sync"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
)

// MergeChannels fans every input channel into a single output channel using
// the shared worker pool. The merged channel closes once all inputs close.
// Its capacity is the sum of the input capacities, so draining already
// buffered inputs never blocks a pool worker on the send.
func MergeChannels[T any](workerPool outbound.TaskDispatcher, channels ...<-chan T) (<-chan T, error) {
	var wg sync.WaitGroup
	buffer := 0
	for _, c := range channels {
		buffer += cap(c)
	}
	merged := make(chan T, buffer)

	forward := func(c <-chan T) {
		for val := range c {
			merged <- val
		}
		wg.Done()
	}

	wg.Add(len(channels))
	for _, c := range channels {
		ch := c
		if err := workerPool.Submit(func() {
			forward(ch)
		}); err != nil {
			wg.Done()
			return nil, err
		}
	}

	if err := workerPool.Submit(func() {
		wg.Wait()
		close(merged)
	}); err != nil {
		return nil, err
	}

	return merged, nil
}
