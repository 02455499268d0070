package forecast

import "math"

// Window is one lookback frame plus the value that followed it.
type Window struct {
	Lookback []float64
	Target   float64
	// Index is the position of Target in the source series.
	Index int
}

// WindowDataset keeps windows in time order.
type WindowDataset struct {
	Lookback int
	Windows  []Window
}

// Len returns the number of windows.
func (d *WindowDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Windows)
}

// BuildWindows slides a frame of size lookback over series one step at a time.
func BuildWindows(series []float64, lookback int) (*WindowDataset, error) {
	if lookback < 1 {
		return nil, &InsufficientDataError{Need: 1, Have: lookback, What: "lookback steps"}
	}
	if len(series) <= lookback {
		return nil, &InsufficientDataError{Need: lookback + 1, Have: len(series)}
	}
	ds := &WindowDataset{
		Lookback: lookback,
		Windows:  make([]Window, 0, len(series)-lookback),
	}
	for i := lookback; i < len(series); i++ {
		lb := make([]float64, lookback)
		copy(lb, series[i-lookback:i])
		ds.Windows = append(ds.Windows, Window{Lookback: lb, Target: series[i], Index: i})
	}
	return ds, nil
}

// Split cuts ds into a training prefix and a holdout suffix at floor(n*trainFraction).
func Split(ds *WindowDataset, trainFraction float64) (*WindowDataset, *WindowDataset, error) {
	n := ds.Len()
	at := int(math.Floor(float64(n) * trainFraction))
	if at > n {
		at = n
	}
	if trainFraction < 1 && at == n {
		at = n - 1
	}
	if at <= 0 || at >= n {
		holdout := n - at
		if holdout < 0 {
			holdout = 0
		}
		return nil, nil, &SplitTooSmallError{Total: n, Train: max(at, 0), Holdout: holdout, Fraction: trainFraction}
	}
	train := &WindowDataset{Lookback: ds.Lookback, Windows: ds.Windows[:at:at]}
	holdout := &WindowDataset{Lookback: ds.Lookback, Windows: ds.Windows[at:]}
	return train, holdout, nil
}

// Inputs returns the lookback slices in order.
func (d *WindowDataset) Inputs() [][]float64 {
	out := make([][]float64, d.Len())
	for i, w := range d.Windows {
		out[i] = w.Lookback
	}
	return out
}

// Targets returns the targets in order.
func (d *WindowDataset) Targets() []float64 {
	out := make([]float64, d.Len())
	for i, w := range d.Windows {
		out[i] = w.Target
	}
	return out
}
