package address

import "strings"

// 国家代码（ISO 3166-1 alpha-2，小写）到大洲名称的静态表
// 约束：塞浦路斯归入欧洲，土耳其与高加索三国归入亚洲，俄罗斯归入欧洲
var continentCodes = map[string]string{
	"Africa":        "ao bf bi bj bw cd cf cg ci cm cv dj dz eg eh er et ga gh gm gn gq gw ke km lr ls ly ma mg ml mr mu mw mz na ne ng re rw sc sd sh sl sn so ss st sz td tg tn tz ug yt za zm zw",
	"Antarctica":    "aq bv gs hm tf",
	"Asia":          "ae af am az bd bh bn bt cc cn cx ge hk id il in io iq ir jo jp kg kh kp kr kw kz la lb lk mm mn mo mv my np om ph pk ps qa sa sg sy th tj tl tm tr tw uz vn ye",
	"Europe":        "ad al at ax ba be bg by ch cy cz de dk ee es fi fo fr gb gg gi gr hr hu ie im is it je li lt lu lv mc md me mk mt nl no pl pt ro rs ru se si sj sk sm ua va xk",
	"North America": "ag ai aw bb bl bm bq bs bz ca cr cu cw dm do gd gl gp gt hn ht jm kn ky lc mf mq ms mx ni pa pm pr sv sx tc tt us vc vg vi",
	"Oceania":       "as au ck fj fm gu ki mh mp nc nf nr nu nz pf pg pn pw sb tk to tv um vu wf ws",
	"South America": "ar bo br cl co ec fk gf gy pe py sr uy ve",
}

var continentByCode = func() map[string]string {
	m := make(map[string]string, 256)
	for continent, codes := range continentCodes {
		for _, c := range splitCodes(codes) {
			m[c] = continent
		}
	}
	return m
}()

// ContinentFor：按国家代码取大洲名称，未知代码返回空串
func ContinentFor(countryCode string) string {
	return continentByCode[strings.ToLower(strings.TrimSpace(countryCode))]
}

func splitCodes(codes string) []string { return strings.Fields(codes) }
