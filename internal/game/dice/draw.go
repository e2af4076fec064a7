package dice

import "go.uber.org/zap"

// Percent returns a uniform draw in [1, 100].
//
// Precondition: src must be non-nil.
func Percent(src Source) int {
	return src.Intn(100) + 1
}

// Chance performs a percentage check: it returns true with probability p,
// where p is clamped to [0, 1]. A p of 0.5 succeeds when the percent draw
// lands in [1, 50].
//
// Precondition: src must be non-nil.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return Percent(src) <= int(p*100)
}

// Drawer wraps a Source and logger so every draw is auditable.
// All draws are logged at debug level with the draw kind and result.
type Drawer struct {
	src    Source
	logger *zap.Logger
}

// NewDrawer creates a Drawer that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewDrawer(src Source, logger *zap.Logger) *Drawer {
	return &Drawer{src: src, logger: logger}
}

// Intn returns a logged uniform draw in [0, n), satisfying Source.
//
// Precondition: n > 0.
func (d *Drawer) Intn(n int) int {
	v := d.src.Intn(n)
	d.logger.Debug("random draw",
		zap.Int("bound", n),
		zap.Int("value", v),
	)
	return v
}

// Chance performs a logged percentage check against p.
func (d *Drawer) Chance(p float64) bool {
	ok := Chance(d.src, p)
	d.logger.Debug("chance draw",
		zap.Float64("probability", p),
		zap.Bool("success", ok),
	)
	return ok
}
