package model

// Batch is one mini-batch of feature rows and targets.
type Batch struct {
	X [][]float64
	Y []float64
}

// Batches feeds X and y through a channel in mini-batches of the given
// size. The final batch may be short. The channel is closed when all rows
// have been sent, so a full training epoch is one range over the channel.
func Batches(X [][]float64, y []float64, size int) <-chan Batch {
	if size <= 0 {
		size = len(y)
	}
	out := make(chan Batch)
	go func() {
		defer close(out)
		for start := 0; start < len(y); start += size {
			end := min(start+size, len(y))
			out <- Batch{X: X[start:end], Y: y[start:end]}
		}
	}()
	return out
}
