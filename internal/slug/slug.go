// 包 slug：由显示名称生成 URL 安全的规范标识
package slug

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// 语言相关的预替换，先于通用音译执行
var localeRules = map[string]*strings.Replacer{
	"de": strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "Ä", "Ae", "Ö", "Oe", "Ü", "Ue", "ß", "ss", "ẞ", "SS"),
	"da": strings.NewReplacer("æ", "ae", "ø", "oe", "å", "aa", "Æ", "Ae", "Ø", "Oe", "Å", "Aa"),
	"nb": strings.NewReplacer("æ", "ae", "ø", "oe", "å", "aa", "Æ", "Ae", "Ø", "Oe", "Å", "Aa"),
	"nn": strings.NewReplacer("æ", "ae", "ø", "oe", "å", "aa", "Æ", "Ae", "Ø", "Oe", "Å", "Aa"),
}

// Generator：绑定语言标签的生成器，无状态，可并发使用
type Generator struct {
	base  string
	rules *strings.Replacer
}

// New：locale 形如 "de"、"de-AT"、"de_DE"；无法识别时按通用规则处理
func New(locale string) *Generator {
	tag := language.Make(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
	b, _ := tag.Base()
	base := b.String()
	if base == "no" {
		base = "nb"
	}
	return &Generator{base: base, rules: localeRules[base]}
}

func (g *Generator) Locale() string { return g.base }

// Make：同一输入与语言必然得到同一结果；非空输入永不返回空串
// 约束：音译后为空（如纯符号）时回退为 "t-" + 名称 xxhash 的 16 位十六进制
func (g *Generator) Make(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	s := norm.NFC.String(name)
	if g.rules != nil {
		s = g.rules.Replace(s)
	}
	s = unidecode.Unidecode(s)
	if out := hyphenate(s); out != "" {
		return out
	}
	return Fallback(name)
}

// Fallback：基于原始名称的确定性标识
func Fallback(name string) string {
	return "t-" + strconv.FormatUint(xxhash.Sum64String(name), 16)
}

// Country：国家层级的规范标识直接使用小写国家代码
func Country(countryCode string) string {
	return strings.ToLower(strings.TrimSpace(countryCode))
}

func hyphenate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
			fallthrough
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(c)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}
