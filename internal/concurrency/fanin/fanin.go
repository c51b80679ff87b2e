package fanin

import (
	"sync"

	"marketdash/internal/domain/model"
)

// FanIn объединяет фреймы из нескольких источников в один канал.
// Когда все входные каналы закрыты, выходной канал закрывается.
func FanIn(channels ...<-chan model.StreamFrame) <-chan model.StreamFrame {
	out := make(chan model.StreamFrame)
	var wg sync.WaitGroup
	wg.Add(len(channels))

	for _, ch := range channels {
		go func(c <-chan model.StreamFrame) {
			defer wg.Done()
			for v := range c {
				out <- v
			}
		}(ch)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
