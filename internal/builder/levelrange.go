package builder

import "location-hierarchy/internal/terms"

// LevelRange：允许的层级区间（闭区间，1 起）
type LevelRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RangeFunc：层级区间钩子，建链与展示共用
type RangeFunc func() LevelRange

func DefaultLevelRange() LevelRange {
	return LevelRange{Min: terms.MinLevel, Max: terms.MaxLevel}
}

// StaticRange：返回固定区间的钩子
func StaticRange(r LevelRange) RangeFunc {
	r = r.Clamp()
	return func() LevelRange { return r }
}

// Clamp：限制到 [1,6]，且 Min <= Max
func (r LevelRange) Clamp() LevelRange {
	if r.Min < terms.MinLevel {
		r.Min = terms.MinLevel
	}
	if r.Max > terms.MaxLevel || r.Max == 0 {
		r.Max = terms.MaxLevel
	}
	if r.Min > terms.MaxLevel {
		r.Min = terms.MaxLevel
	}
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}

func (r LevelRange) Contains(level int) bool {
	return level >= r.Min && level <= r.Max
}
