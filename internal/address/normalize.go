package address

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Components：地理编码返回的原始地址字段（键名随提供方而异）
type Components map[string]string

// Policy：按层级列出候选字段，按顺序取首个非空值
type Policy struct {
	State  []string
	City   []string
	Street []string
	// CityState：州为空但城市存在时，把城市提升为州，并用 District 字段作为城市
	CityState bool
	District  []string
}

var (
	// 指定区域：保留本地行政区划命名，州只取 state 字段
	designatedRegions = map[string]bool{"de": true, "at": true, "ch": true, "lu": true}

	defaultPolicy = Policy{
		State:  []string{"state", "region", "province"},
		City:   []string{"city", "town", "village", "county"},
		Street: []string{"road", "street", "pedestrian"},
	}
	designatedPolicy = Policy{
		State:     []string{"state"},
		City:      []string{"city", "town", "village", "county"},
		Street:    []string{"road", "street", "pedestrian"},
		CityState: true,
		District:  []string{"suburb", "borough"},
	}
)

// IsDesignatedRegion：de / at / ch / lu
func IsDesignatedRegion(countryCode string) bool {
	return designatedRegions[strings.ToLower(strings.TrimSpace(countryCode))]
}

// PolicyFor：按国家代码选择区域策略
func PolicyFor(countryCode string) Policy {
	if IsDesignatedRegion(countryCode) {
		return designatedPolicy
	}
	return defaultPolicy
}

// Normalize：原始字段 → LocationLevels
// countryCode 为空时取 components["country_code"]；任何字段缺失只产生空层级，不返回错误
func Normalize(c Components, countryCode string) LocationLevels {
	cc := strings.ToLower(strings.TrimSpace(countryCode))
	if cc == "" {
		cc = strings.ToLower(c.get("country_code"))
	}
	p := PolicyFor(cc)

	out := LocationLevels{
		Continent:   ContinentFor(cc),
		Country:     c.get("country"),
		CountryCode: cc,
		State:       c.first(p.State),
		City:        c.first(p.City),
		Street:      c.first(p.Street),
	}
	if out.State == "" && out.City != "" && p.CityState {
		out.State = out.City
		out.City = c.first(p.District)
	}
	if out.Street != "" {
		if hn := c.get("house_number"); hn != "" {
			out.StreetNumber = out.Street + " " + hn
		}
	}
	return out
}

func (c Components) get(key string) string {
	return Sanitize(c[key])
}

func (c Components) first(keys []string) string {
	for _, k := range keys {
		if v := c.get(k); v != "" {
			return v
		}
	}
	return ""
}

// Sanitize：NFC 归一、去除控制字符与尖括号、折叠空白；保留原有大小写
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '<' || r == '>':
			return -1
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
