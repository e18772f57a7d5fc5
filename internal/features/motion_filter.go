package features

import "github.com/char5742/swipe-detector/internal/ledger"

// MotionFilter はタッチ座標（x, y）を滑らかにします
type MotionFilter struct {
	smoothingFactor float32 // 0.0-1.0の範囲。1.0に近いほど滑らかになりますが、遅延が大きくなります
	lastX           float32
	lastY           float32
	warmUpCount     int
	currentCount    int
}

// 新しいモーションフィルターを作成します
func NewMotionFilter(smoothingFactor float64, warmUpCount int) *MotionFilter {
	return &MotionFilter{
		smoothingFactor: float32(smoothingFactor),
		warmUpCount:     warmUpCount,
	}
}

// 座標にsmoothingを適用します
func (mf *MotionFilter) Filter(x, y float32) (float32, float32) {
	// ウォームアップ中はそのまま返す
	if mf.currentCount < mf.warmUpCount || mf.currentCount == 0 {
		mf.currentCount++
		mf.lastX, mf.lastY = x, y
		return x, y
	}

	f := mf.smoothingFactor
	mf.lastX = x*(1-f) + mf.lastX*f
	mf.lastY = y*(1-f) + mf.lastY*f
	return mf.lastX, mf.lastY
}

// フィルターの状態をリセットします
func (mf *MotionFilter) Reset() {
	mf.lastX = 0
	mf.lastY = 0
	mf.currentCount = 0
}

// SlotFilter はスロットごとに MotionFilter を持つ
type SlotFilter struct {
	filters [ledger.MaxFingers]*MotionFilter
}

// NewSlotFilter はスロットごとのフィルターを作成します
// smoothingFactor が 0 の場合は nil を返し、フィルターは使わない
func NewSlotFilter(smoothingFactor float64, warmUpCount int) *SlotFilter {
	if smoothingFactor <= 0 {
		return nil
	}
	sf := &SlotFilter{}
	for i := range sf.filters {
		sf.filters[i] = NewMotionFilter(smoothingFactor, warmUpCount)
	}
	return sf
}

func (sf *SlotFilter) Filter(slot int, x, y float32) (float32, float32) {
	if slot < 0 || slot >= len(sf.filters) {
		return x, y
	}
	return sf.filters[slot].Filter(x, y)
}

func (sf *SlotFilter) Reset(slot int) {
	if slot >= 0 && slot < len(sf.filters) {
		sf.filters[slot].Reset()
	}
}
