package phonetic

func pat(pre, above, post string) *Pattern {
	return &Pattern{Pre: pre, Above: above, Post: post}
}

var defaultOnsets = []Onset{
	{Roman: "k", Forms: []string{"ก"}},
	{Roman: "kh", Forms: []string{"ข", "ค", "ฆ"}},
	{Roman: "ng", Forms: []string{"ง"}},
	{Roman: "c", Forms: []string{"จ"}},
	{Roman: "ch", Forms: []string{"ช", "ฉ", "ฌ"}},
	{Roman: "s", Forms: []string{"ส", "ซ", "ศ", "ษ"}},
	{Roman: "y", Forms: []string{"ย", "ญ"}},
	{Roman: "d", Forms: []string{"ด", "ฎ"}},
	{Roman: "t", Forms: []string{"ต", "ฏ"}},
	{Roman: "th", Forms: []string{"ถ", "ท", "ธ", "ฒ", "ฐ"}},
	{Roman: "n", Forms: []string{"น", "ณ"}},
	{Roman: "b", Forms: []string{"บ"}},
	{Roman: "p", Forms: []string{"ป"}},
	{Roman: "ph", Forms: []string{"ผ", "พ", "ภ"}},
	{Roman: "f", Forms: []string{"ฟ", "ฝ"}},
	{Roman: "m", Forms: []string{"ม"}},
	{Roman: "r", Forms: []string{"ร"}},
	{Roman: "l", Forms: []string{"ล", "ฬ"}},
	{Roman: "w", Forms: []string{"ว"}},
	{Roman: "h", Forms: []string{"ห", "ฮ"}},
	{Roman: "?", Forms: []string{"อ"}},

	// clusters
	{Roman: "kr", Forms: []string{"กร"}},
	{Roman: "kl", Forms: []string{"กล"}},
	{Roman: "kw", Forms: []string{"กว"}},
	{Roman: "khr", Forms: []string{"คร", "ขร"}},
	{Roman: "khl", Forms: []string{"คล", "ขล"}},
	{Roman: "khw", Forms: []string{"ขว", "คว"}},
	{Roman: "tr", Forms: []string{"ตร"}},
	{Roman: "pr", Forms: []string{"ปร"}},
	{Roman: "pl", Forms: []string{"ปล"}},
	{Roman: "phr", Forms: []string{"พร"}},
	{Roman: "phl", Forms: []string{"พล", "ผล"}},

	// leading ห
	{Roman: "hng", Forms: []string{"หง"}},
	{Roman: "hn", Forms: []string{"หน"}},
	{Roman: "hm", Forms: []string{"หม"}},
	{Roman: "hy", Forms: []string{"หย"}},
	{Roman: "hr", Forms: []string{"หร"}},
	{Roman: "hl", Forms: []string{"หล"}},
	{Roman: "hw", Forms: []string{"หว"}},
}

var defaultVowels = []Vowel{
	{Roman: "a", Open: Pattern{Post: "ะ"}, Closed: pat("", "ั", "")},
	{Roman: "aa", Long: true, Open: Pattern{Post: "า"}, Closed: pat("", "", "า")},
	{Roman: "i", Open: Pattern{Above: "ิ"}, Closed: pat("", "ิ", "")},
	{Roman: "ii", Long: true, Open: Pattern{Above: "ี"}, Closed: pat("", "ี", "")},
	{Roman: "ue", Open: Pattern{Above: "ึ"}, Closed: pat("", "ึ", "")},
	{Roman: "uee", Long: true, Open: Pattern{Above: "ื", Post: "อ"}, Closed: pat("", "ื", "")},
	{Roman: "u", Open: Pattern{Above: "ุ"}, Closed: pat("", "ุ", "")},
	{Roman: "uu", Long: true, Open: Pattern{Above: "ู"}, Closed: pat("", "ู", "")},
	{Roman: "e", Open: Pattern{Pre: "เ", Post: "ะ"}, Closed: pat("เ", maiTaikhu, "")},
	{Roman: "ee", Long: true, Open: Pattern{Pre: "เ"}, Closed: pat("เ", "", "")},
	{Roman: "ae", Open: Pattern{Pre: "แ", Post: "ะ"}, Closed: pat("แ", "", "")},
	{Roman: "aee", Long: true, Open: Pattern{Pre: "แ"}, Closed: pat("แ", "", "")},
	{Roman: "o", Open: Pattern{Pre: "โ", Post: "ะ"}, Closed: pat("", "", "")},
	{Roman: "oo", Long: true, Open: Pattern{Pre: "โ"}, Closed: pat("โ", "", "")},
	{Roman: "or", Open: Pattern{Pre: "เ", Post: "าะ"}, Closed: pat("", maiTaikhu, "อ")},
	{Roman: "orr", Long: true, Open: Pattern{Post: "อ"}, Closed: pat("", "", "อ")},
	{Roman: "oe", Open: Pattern{Pre: "เ", Post: "อะ"}},
	{Roman: "err", Open: Pattern{Pre: "เ", Post: "อะ"}},
	{Roman: "oee", Long: true, Open: Pattern{Pre: "เ", Post: "อ"}, Closed: pat("เ", "ิ", ""), ClosedY: pat("เ", "", "")},
	{Roman: "er", Long: true, Open: Pattern{Pre: "เ", Post: "อ"}, Closed: pat("เ", "ิ", ""), ClosedY: pat("เ", "", "")},
	{Roman: "ia", Long: true, Open: Pattern{Pre: "เ", Above: "ี", Post: "ย"}, Closed: pat("เ", "ี", "ย")},
	{Roman: "uea", Long: true, Open: Pattern{Pre: "เ", Above: "ื", Post: "อ"}, Closed: pat("เ", "ื", "อ")},
	{Roman: "ua", Long: true, Open: Pattern{Above: "ั", Post: "ว"}, Closed: pat("", "", "ว")},

	// glides: always live, never closed
	{Roman: "ai", Live: true, Open: Pattern{Pre: "ไ"}},
	{Roman: "ay", Live: true, Open: Pattern{Pre: "ไ"}},
	{Roman: "ao", Live: true, Open: Pattern{Pre: "เ", Post: "า"}},
	{Roman: "aw", Live: true, Open: Pattern{Pre: "เ", Post: "า"}},
	{Roman: "am", Live: true, Open: Pattern{Post: "ำ"}},
	{Roman: "oi", Long: true, Live: true, Open: Pattern{Post: "อย"}},
	{Roman: "oy", Long: true, Live: true, Open: Pattern{Post: "อย"}},
}

var defaultCodas = []Coda{
	{Roman: "ng", Sonorant: true, Forms: []string{"ง"}},
	{Roman: "k", Forms: []string{"ก", "ข", "ค", "ฆ", "คร์"}},
	{Roman: "t", Forms: []string{"ด", "ต", "ถ", "ท", "ธ", "ศ", "ษ", "ส", "จ", "ช", "ซ", "ฎ", "ฏ", "ฐ", "ฑ", "ฒ", "ตว์"}},
	{Roman: "p", Forms: []string{"บ", "ป", "พ", "ฟ", "ภ", "พธ์"}},
	{Roman: "m", Sonorant: true, Forms: []string{"ม"}},
	{Roman: "n", Sonorant: true, Forms: []string{"น", "ร", "ล", "ญ", "ณ", "ฬ", "รย์"}},
	{Roman: "w", Sonorant: true, Forms: []string{"ว"}},
	{Roman: "y", Sonorant: true, Forms: []string{"ย"}},
}
