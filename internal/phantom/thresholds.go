package phantom

// Band はラジアンの開区間
type Band struct {
	Min float64 `toml:"min" yaml:"min" json:"min"`
	Max float64 `toml:"max" yaml:"max" json:"max"`
}

// Contains は r が区間内にあるかを返す
func (b Band) Contains(r float64) bool {
	return r > b.Min && r < b.Max
}

// Thresholds はファントムスワイプ判定に使う閾値
// 端末の解像度に合わせて調整できるように、すべて設定から与える
type Thresholds struct {
	// 1dp の大きさ
	Pixel                float64 `toml:"pixel" yaml:"pixel" json:"pixel"`
	// 幅に対するジャンプ長
	JumpRatio            float64 `toml:"jump_ratio" yaml:"jump_ratio" json:"jump_ratio"`
	// 高さに対する「十分な長さ」
	NiceRatio            float64 `toml:"nice_ratio" yaml:"nice_ratio" json:"nice_ratio"`
	// 高さに対する平均区間長
	AverageRatio         float64 `toml:"average_ratio" yaml:"average_ratio" json:"average_ratio"`
	MaxConcurrentRads    int     `toml:"max_concurrent_rads" yaml:"max_concurrent_rads" json:"max_concurrent_rads"`
	MaxWeight            float64 `toml:"max_weight" yaml:"max_weight" json:"max_weight"`
	AvgRadianError       float64 `toml:"avg_radian_error" yaml:"avg_radian_error" json:"avg_radian_error"`
	MaxRadianError       float64 `toml:"max_radian_error" yaml:"max_radian_error" json:"max_radian_error"`
	MinChangeInRads      float64 `toml:"min_change_in_rads" yaml:"min_change_in_rads" json:"min_change_in_rads"`
	AvgChangeInRads      float64 `toml:"avg_change_in_rads" yaml:"avg_change_in_rads" json:"avg_change_in_rads"`
	MaxStandardDeviation float64 `toml:"max_standard_deviation" yaml:"max_standard_deviation" json:"max_standard_deviation"`
	AvgEndLengthRatio    float64 `toml:"avg_end_length_ratio" yaml:"avg_end_length_ratio" json:"avg_end_length_ratio"`
	// 最初の区間に仮定する速度比
	VelocitySpeed        float64 `toml:"velocity_speed" yaml:"velocity_speed" json:"velocity_speed"`
	TinyEndRatio         float64 `toml:"tiny_end_ratio" yaml:"tiny_end_ratio" json:"tiny_end_ratio"`
	VerticalBands        []Band  `toml:"vertical_bands" yaml:"vertical_bands" json:"vertical_bands"`
	VerticalForgiveness  float64 `toml:"vertical_forgiveness" yaml:"vertical_forgiveness" json:"vertical_forgiveness"`
}

// DefaultThresholds はデフォルトの閾値を返す
func DefaultThresholds(pixel float64) Thresholds {
	return Thresholds{
		Pixel:                pixel,
		JumpRatio:            1.0 / 8,
		NiceRatio:            1.0 / 8,
		AverageRatio:         1.0 / 40,
		MaxConcurrentRads:    3,
		MaxWeight:            4,
		AvgRadianError:       1.57,  // 90度
		MaxRadianError:       3.14,  // 180度
		MinChangeInRads:      0.174, // 10度
		AvgChangeInRads:      0.785, // 45度
		MaxStandardDeviation: 16,
		AvgEndLengthRatio:    0.9,
		VelocitySpeed:        0.7,
		TinyEndRatio:         0.25,
		VerticalBands: []Band{
			{Min: 0.8, Max: 2.4}, // 下向き
			{Min: 4.3, Max: 5.1}, // 上向き
		},
		VerticalForgiveness: 1.5,
	}
}

// jumpLength は区間がジャンプとみなされる長さ
func (t Thresholds) jumpLength(width float64) float64 {
	return width * t.JumpRatio
}

// niceLength はファントムスワイプが超えないと想定される長さ
func (t Thresholds) niceLength(height float64) float64 {
	return height * t.NiceRatio
}

// averageLength は点の間の平均的な長さ
func (t Thresholds) averageLength(height float64) float64 {
	return height * t.AverageRatio
}

func (t Thresholds) vertical(r float64) bool {
	for _, b := range t.VerticalBands {
		if b.Contains(r) {
			return true
		}
	}
	return false
}
