// 包 address：将地理编码原始字段归一化为有序层级 LocationLevels
package address

import "location-hierarchy/internal/terms"

// LocationLevels：一次解析得到的有序层级，构造后只读
type LocationLevels struct {
	Continent    string `json:"continent,omitempty"`
	Country      string `json:"country,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
	State        string `json:"state,omitempty"`
	City         string `json:"city,omitempty"`
	Street       string `json:"street,omitempty"`
	StreetNumber string `json:"street_number,omitempty"`
}

// Pair：层级编号与名称
type Pair struct {
	Level int
	Name  string
}

// Name：按层级编号取名称，越界返回空串
func (l LocationLevels) Name(level int) string {
	switch level {
	case terms.LevelContinent:
		return l.Continent
	case terms.LevelCountry:
		return l.Country
	case terms.LevelState:
		return l.State
	case terms.LevelCity:
		return l.City
	case terms.LevelStreet:
		return l.Street
	case terms.LevelStreetNumber:
		return l.StreetNumber
	}
	return ""
}

// Pairs：自上而下的全部六个层级（含空值），由调用方决定跳过策略
func (l LocationLevels) Pairs() []Pair {
	out := make([]Pair, 0, terms.MaxLevel)
	for lv := terms.MinLevel; lv <= terms.MaxLevel; lv++ {
		out = append(out, Pair{Level: lv, Name: l.Name(lv)})
	}
	return out
}

// Depth：从首个非空层级起连续非空层级的数量
func (l LocationLevels) Depth() int {
	n := 0
	started := false
	for lv := terms.MinLevel; lv <= terms.MaxLevel; lv++ {
		if l.Name(lv) == "" {
			if started {
				break
			}
			continue
		}
		started = true
		n++
	}
	return n
}

func (l LocationLevels) IsEmpty() bool { return l.Depth() == 0 }
