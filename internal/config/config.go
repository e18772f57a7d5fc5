package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/char5742/swipe-detector/internal/geometry"
	"github.com/char5742/swipe-detector/internal/gesture"
	"github.com/char5742/swipe-detector/internal/phantom"
	"github.com/char5742/swipe-detector/internal/recognizer"
)

// Config はアプリケーション全体の設定を表す構造体
type Config struct {
	Surface     SurfaceConfig      `toml:"surface" yaml:"surface" json:"surface"`
	Gesture     GestureConfig      `toml:"gesture" yaml:"gesture" json:"gesture"`
	Timing      TimingConfig       `toml:"timing" yaml:"timing" json:"timing"`
	MultiTouch  MultiTouchConfig   `toml:"multi_touch" yaml:"multi_touch" json:"multi_touch"`
	Areas       AreasConfig        `toml:"areas" yaml:"areas" json:"areas"`
	Phantom     phantom.Thresholds `toml:"phantom" yaml:"phantom" json:"phantom"`
	Motion      MotionConfig       `toml:"motion" yaml:"motion" json:"motion"`
	DevicePrefs DevicePrefsConfig  `toml:"device_prefs" yaml:"device_prefs" json:"device_prefs"`
	Log         LogConfig          `toml:"log" yaml:"log" json:"log"`
}

// SurfaceConfig は入力面の大きさ
// 0 の場合はデバイスの座標範囲をそのまま使う
type SurfaceConfig struct {
	Width  float64 `toml:"width" yaml:"width" json:"width"`
	Height float64 `toml:"height" yaml:"height" json:"height"`
}

// GestureConfig はタップとスワイプの判定の設定
type GestureConfig struct {
	InvertHorizontal bool               `toml:"invert_horizontal" yaml:"invert_horizontal" json:"invert_horizontal"`
	HeldDrag         bool               `toml:"held_drag" yaml:"held_drag" json:"held_drag"`
	SwipeFactor      float64            `toml:"swipe_factor" yaml:"swipe_factor" json:"swipe_factor"`
	MinSwipeRatio    float64            `toml:"min_swipe_ratio" yaml:"min_swipe_ratio" json:"min_swipe_ratio"`
	DirectionFactors map[string]float64 `toml:"direction_factors" yaml:"direction_factors" json:"direction_factors"`
}

// TimingConfig はタイマーの設定
type TimingConfig struct {
	TapTimeLimit   time.Duration `toml:"tap_time_limit" yaml:"tap_time_limit" json:"tap_time_limit"`
	PreHoldDelay   time.Duration `toml:"pre_hold_delay" yaml:"pre_hold_delay" json:"pre_hold_delay"`
	HoldDelay      time.Duration `toml:"hold_delay" yaml:"hold_delay" json:"hold_delay"`
	PostHoldDelay  time.Duration `toml:"post_hold_delay" yaml:"post_hold_delay" json:"post_hold_delay"`
	DoubleTapDelay time.Duration `toml:"double_tap_delay" yaml:"double_tap_delay" json:"double_tap_delay"`
	SpecialDelay   time.Duration `toml:"special_delay" yaml:"special_delay" json:"special_delay"`
}

// MultiTouchConfig は複数指ジェスチャーの設定
type MultiTouchConfig struct {
	Fingers    int      `toml:"fingers" yaml:"fingers" json:"fingers"`
	Directions []string `toml:"directions" yaml:"directions" json:"directions"`
}

// AreasConfig は画面上の領域の設定
type AreasConfig struct {
	Special []geometry.Rect `toml:"special" yaml:"special" json:"special"`
	Regular []geometry.Rect `toml:"regular" yaml:"regular" json:"regular"`
	XOffset float32         `toml:"x_offset" yaml:"x_offset" json:"x_offset"`
	YOffset float32         `toml:"y_offset" yaml:"y_offset" json:"y_offset"`
}

// MotionConfig は座標の平滑化の設定
type MotionConfig struct {
	FilterSmoothingFactor float64 `toml:"filter_smoothing_factor" yaml:"filter_smoothing_factor" json:"filter_smoothing_factor"`
	FilterWarmUpCount     int     `toml:"filter_warm_up_count" yaml:"filter_warm_up_count" json:"filter_warm_up_count"`
}

// DevicePrefsConfig はデバイス選択の設定
type DevicePrefsConfig struct {
	PreferredTouchDevice string `toml:"preferred_touch_device" yaml:"preferred_touch_device" json:"preferred_touch_device"`
	Grab                 bool   `toml:"grab" yaml:"grab" json:"grab"`
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Classifier     bool `toml:"classifier" yaml:"classifier" json:"classifier"` // ファントム判定の詳細を出力する
	RecentGestures int  `toml:"recent_gestures" yaml:"recent_gestures" json:"recent_gestures"`
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() *Config {
	opts := recognizer.DefaultOptions()
	directions := make([]string, 0, len(opts.MultiTouchDirections))
	for _, d := range opts.MultiTouchDirections {
		directions = append(directions, d.String())
	}
	return &Config{
		Gesture: GestureConfig{
			SwipeFactor:      opts.SwipeFactor,
			MinSwipeRatio:    opts.MinSwipeRatio,
			DirectionFactors: map[string]float64{},
		},
		Timing: TimingConfig{
			TapTimeLimit:   opts.TapTimeLimit,
			PreHoldDelay:   opts.PreHoldDelay,
			HoldDelay:      opts.HoldDelay,
			PostHoldDelay:  opts.PostHoldDelay,
			DoubleTapDelay: opts.DoubleTapDelay,
			SpecialDelay:   opts.SpecialDelay,
		},
		MultiTouch: MultiTouchConfig{
			Fingers:    opts.MultiTouchFingers,
			Directions: directions,
		},
		Phantom: opts.Phantom,
		Motion: MotionConfig{
			FilterSmoothingFactor: 0,
			FilterWarmUpCount:     3,
		},
		DevicePrefs: DevicePrefsConfig{
			Grab: false,
		},
		Log: LogConfig{
			RecentGestures: 100,
		},
	}
}

// RecognizerOptions は設定からオーケストレーターの設定を作成する
func (c *Config) RecognizerOptions() (recognizer.Options, error) {
	opts := recognizer.Options{
		InvertHorizontal:  c.Gesture.InvertHorizontal,
		HeldDrag:          c.Gesture.HeldDrag,
		SwipeFactor:       c.Gesture.SwipeFactor,
		MinSwipeRatio:     c.Gesture.MinSwipeRatio,
		TapTimeLimit:      c.Timing.TapTimeLimit,
		PreHoldDelay:      c.Timing.PreHoldDelay,
		HoldDelay:         c.Timing.HoldDelay,
		PostHoldDelay:     c.Timing.PostHoldDelay,
		DoubleTapDelay:    c.Timing.DoubleTapDelay,
		SpecialDelay:      c.Timing.SpecialDelay,
		SpecialAreas:      append([]geometry.Rect(nil), c.Areas.Special...),
		Areas:             append([]geometry.Rect(nil), c.Areas.Regular...),
		MultiTouchFingers: c.MultiTouch.Fingers,
		XOffset:           c.Areas.XOffset,
		YOffset:           c.Areas.YOffset,
		Phantom:           c.Phantom,
	}

	if len(c.Gesture.DirectionFactors) > 0 {
		opts.DirectionFactors = make(map[gesture.Direction]float64, len(c.Gesture.DirectionFactors))
		for name, f := range c.Gesture.DirectionFactors {
			d, err := gesture.ParseDirection(name)
			if err != nil {
				return opts, fmt.Errorf("direction_factors の解析に失敗しました: %w", err)
			}
			opts.DirectionFactors[d] = f
		}
	}
	for _, name := range c.MultiTouch.Directions {
		d, err := gesture.ParseDirection(name)
		if err != nil {
			return opts, fmt.Errorf("multi_touch.directions の解析に失敗しました: %w", err)
		}
		opts.MultiTouchDirections = append(opts.MultiTouchDirections, d)
	}
	return opts, nil
}

// Validate は設定値の範囲を確認する
func (c *Config) Validate() error {
	if c.Surface.Width < 0 || c.Surface.Height < 0 {
		return fmt.Errorf("入力面の大きさが不正です: %vx%v", c.Surface.Width, c.Surface.Height)
	}
	if c.MultiTouch.Fingers < 1 {
		return fmt.Errorf("multi_touch.fingers は1以上である必要があります: %d", c.MultiTouch.Fingers)
	}
	if c.Motion.FilterSmoothingFactor < 0 || c.Motion.FilterSmoothingFactor >= 1 {
		return fmt.Errorf("filter_smoothing_factor は 0 以上 1 未満である必要があります: %v", c.Motion.FilterSmoothingFactor)
	}
	_, err := c.RecognizerOptions()
	return err
}

// GetDefaultConfigDir はデフォルトの設定ディレクトリを返す
func GetDefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("ユーザー設定ディレクトリの取得に失敗しました: %w", err)
	}
	return filepath.Join(dir, "swipe-detector"), nil
}

// isYAML は拡張子で YAML 形式かを判定する
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig は設定ファイルから設定を読み込む
func LoadConfig(configPath string) (*Config, error) {
	// デフォルト設定を用意
	config := DefaultConfig()

	// ファイルが存在しない場合はデフォルト設定を保存して返す
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveConfig(configPath, config); err != nil {
			return config, err
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return config, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
	}
	if isYAML(configPath) {
		err = yaml.Unmarshal(data, config)
	} else {
		_, err = toml.Decode(string(data), config)
	}
	if err != nil {
		return config, fmt.Errorf("設定ファイルの解析に失敗しました[path=%s]: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// SaveConfig は設定をファイルに保存する。拡張子が .yaml/.yml なら YAML、それ以外は TOML
func SaveConfig(configPath string, config *Config) error {
	// 設定ディレクトリの作成
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("設定ディレクトリの作成に失敗しました: %w", err)
	}

	var buf bytes.Buffer
	if isYAML(configPath) {
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(config); err != nil {
			return fmt.Errorf("YAMLのエンコードに失敗しました: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return err
		}
	} else {
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return fmt.Errorf("TOMLのエンコードに失敗しました: %w", err)
		}
	}

	return os.WriteFile(configPath, buf.Bytes(), 0644)
}
