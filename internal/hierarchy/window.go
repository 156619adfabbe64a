package hierarchy

import "location-hierarchy/internal/terms"

// Window：展示层级窗口（闭区间，1 起）
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DefaultWindow：完整层级
func DefaultWindow() Window { return Window{Start: terms.MinLevel, End: terms.MaxLevel} }

// Clamp：保证 1 <= Start <= End
func (w Window) Clamp() Window {
	if w.Start < 1 {
		w.Start = 1
	}
	if w.End < w.Start {
		w.End = w.Start
	}
	return w
}

// Filter：返回 path[start-1 : min(end, len)]；起点越过路径长度时返回空
// 约束：实时数据与编辑预览共用该函数
func Filter[T any](path []T, w Window) []T {
	w = w.Clamp()
	l := len(path)
	if w.Start > l {
		return nil
	}
	end := w.End
	if end > l {
		end = l
	}
	return path[w.Start-1 : end]
}

// FilterAll：对每条路径应用窗口，丢弃裁剪后为空的路径
func FilterAll(paths []Path, w Window) []Path {
	var out []Path
	for _, p := range paths {
		if f := Filter(p, w); len(f) > 0 {
			out = append(out, f)
		}
	}
	return out
}
