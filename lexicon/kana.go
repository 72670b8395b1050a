package lexicon

// p is a shorthand to build a phoneme slice.
func p(ps ...Symbol) []Symbol { return ps }

// kanaPhonemes maps katakana strings to phoneme sequences.
// Two-character entries (yōon) are checked before single characters (longest match).
var kanaPhonemes = []struct {
	kana     string
	phonemes []Symbol
}{
	// 拗音 (2文字) — must come before single-char entries
	{"キャ", p(PhonK, PhonY, PhonA)},
	{"キュ", p(PhonK, PhonY, PhonU)},
	{"キョ", p(PhonK, PhonY, PhonO)},
	{"ギャ", p(PhonG, PhonY, PhonA)},
	{"ギュ", p(PhonG, PhonY, PhonU)},
	{"ギョ", p(PhonG, PhonY, PhonO)},
	{"シャ", p(PhonSh, PhonA)},
	{"シュ", p(PhonSh, PhonU)},
	{"ショ", p(PhonSh, PhonO)},
	{"ジャ", p(PhonJ, PhonA)},
	{"ジュ", p(PhonJ, PhonU)},
	{"ジョ", p(PhonJ, PhonO)},
	{"チャ", p(PhonCh, PhonA)},
	{"チュ", p(PhonCh, PhonU)},
	{"チョ", p(PhonCh, PhonO)},
	{"ニャ", p(PhonN, PhonY, PhonA)},
	{"ニュ", p(PhonN, PhonY, PhonU)},
	{"ニョ", p(PhonN, PhonY, PhonO)},
	{"ヒャ", p(PhonH, PhonY, PhonA)},
	{"ヒュ", p(PhonH, PhonY, PhonU)},
	{"ヒョ", p(PhonH, PhonY, PhonO)},
	{"ビャ", p(PhonB, PhonY, PhonA)},
	{"ビュ", p(PhonB, PhonY, PhonU)},
	{"ビョ", p(PhonB, PhonY, PhonO)},
	{"ピャ", p(PhonP, PhonY, PhonA)},
	{"ピュ", p(PhonP, PhonY, PhonU)},
	{"ピョ", p(PhonP, PhonY, PhonO)},
	{"ミャ", p(PhonM, PhonY, PhonA)},
	{"ミュ", p(PhonM, PhonY, PhonU)},
	{"ミョ", p(PhonM, PhonY, PhonO)},
	{"リャ", p(PhonR, PhonY, PhonA)},
	{"リュ", p(PhonR, PhonY, PhonU)},
	{"リョ", p(PhonR, PhonY, PhonO)},
	{"ティ", p(PhonT, PhonI)},
	{"ディ", p(PhonD, PhonI)},
	{"ファ", p(PhonF, PhonA)},
	{"フィ", p(PhonF, PhonI)},
	{"フェ", p(PhonF, PhonE)},
	{"フォ", p(PhonF, PhonO)},
	{"フュ", p(PhonF, PhonY, PhonU)},
	// 外来語拗音
	{"チェ", p(PhonCh, PhonE)},
	{"シェ", p(PhonSh, PhonE)},
	{"ジェ", p(PhonJ, PhonE)},
	{"ウィ", p(PhonU, PhonI)},
	{"ウェ", p(PhonU, PhonE)},
	{"ウォ", p(PhonU, PhonO)},
	{"ヴァ", p(PhonB, PhonA)},
	{"ヴィ", p(PhonB, PhonI)},
	{"ヴェ", p(PhonB, PhonE)},
	{"ヴォ", p(PhonB, PhonO)},
	{"トゥ", p(PhonT, PhonU)},
	{"ドゥ", p(PhonD, PhonU)},
	{"デュ", p(PhonD, PhonY, PhonU)},
	{"テュ", p(PhonT, PhonY, PhonU)},
	{"ツァ", p(PhonTs, PhonA)},
	{"ツィ", p(PhonTs, PhonI)},
	{"ツェ", p(PhonTs, PhonE)},
	{"ツォ", p(PhonTs, PhonO)},
	{"イェ", p(PhonI, PhonE)},
	{"クァ", p(PhonK, PhonW, PhonA)},
	{"グァ", p(PhonG, PhonW, PhonA)},

	// 単独カナ
	// ア行
	{"ア", p(PhonA)},
	{"イ", p(PhonI)},
	{"ウ", p(PhonU)},
	{"エ", p(PhonE)},
	{"オ", p(PhonO)},
	// カ行
	{"カ", p(PhonK, PhonA)},
	{"キ", p(PhonK, PhonI)},
	{"ク", p(PhonK, PhonU)},
	{"ケ", p(PhonK, PhonE)},
	{"コ", p(PhonK, PhonO)},
	// ガ行
	{"ガ", p(PhonG, PhonA)},
	{"ギ", p(PhonG, PhonI)},
	{"グ", p(PhonG, PhonU)},
	{"ゲ", p(PhonG, PhonE)},
	{"ゴ", p(PhonG, PhonO)},
	// サ行
	{"サ", p(PhonS, PhonA)},
	{"シ", p(PhonSh, PhonI)},
	{"ス", p(PhonS, PhonU)},
	{"セ", p(PhonS, PhonE)},
	{"ソ", p(PhonS, PhonO)},
	// ザ行
	{"ザ", p(PhonZ, PhonA)},
	{"ジ", p(PhonJ, PhonI)},
	{"ズ", p(PhonZ, PhonU)},
	{"ゼ", p(PhonZ, PhonE)},
	{"ゾ", p(PhonZ, PhonO)},
	// タ行
	{"タ", p(PhonT, PhonA)},
	{"チ", p(PhonCh, PhonI)},
	{"ツ", p(PhonTs, PhonU)},
	{"テ", p(PhonT, PhonE)},
	{"ト", p(PhonT, PhonO)},
	// ダ行
	{"ダ", p(PhonD, PhonA)},
	{"ヂ", p(PhonJ, PhonI)},
	{"ヅ", p(PhonZ, PhonU)},
	{"デ", p(PhonD, PhonE)},
	{"ド", p(PhonD, PhonO)},
	// ナ行
	{"ナ", p(PhonN, PhonA)},
	{"ニ", p(PhonN, PhonI)},
	{"ヌ", p(PhonN, PhonU)},
	{"ネ", p(PhonN, PhonE)},
	{"ノ", p(PhonN, PhonO)},
	// ハ行
	{"ハ", p(PhonH, PhonA)},
	{"ヒ", p(PhonH, PhonI)},
	{"フ", p(PhonF, PhonU)},
	{"ヘ", p(PhonH, PhonE)},
	{"ホ", p(PhonH, PhonO)},
	// バ行
	{"バ", p(PhonB, PhonA)},
	{"ビ", p(PhonB, PhonI)},
	{"ブ", p(PhonB, PhonU)},
	{"ベ", p(PhonB, PhonE)},
	{"ボ", p(PhonB, PhonO)},
	// パ行
	{"パ", p(PhonP, PhonA)},
	{"ピ", p(PhonP, PhonI)},
	{"プ", p(PhonP, PhonU)},
	{"ペ", p(PhonP, PhonE)},
	{"ポ", p(PhonP, PhonO)},
	// マ行
	{"マ", p(PhonM, PhonA)},
	{"ミ", p(PhonM, PhonI)},
	{"ム", p(PhonM, PhonU)},
	{"メ", p(PhonM, PhonE)},
	{"モ", p(PhonM, PhonO)},
	// ヤ行
	{"ヤ", p(PhonY, PhonA)},
	{"ユ", p(PhonY, PhonU)},
	{"ヨ", p(PhonY, PhonO)},
	// ラ行
	{"ラ", p(PhonR, PhonA)},
	{"リ", p(PhonR, PhonI)},
	{"ル", p(PhonR, PhonU)},
	{"レ", p(PhonR, PhonE)},
	{"ロ", p(PhonR, PhonO)},
	// ワ行
	{"ワ", p(PhonW, PhonA)},
	{"ヲ", p(PhonO)},
	// 小文字母音 (外来語フォールバック)
	{"ァ", p(PhonA)},
	{"ィ", p(PhonI)},
	{"ゥ", p(PhonU)},
	{"ェ", p(PhonE)},
	{"ォ", p(PhonO)},
	// 特殊
	{"ン", p(PhonNg)},
	{"ッ", p(PhonQ)},
	{"ー", p(PhonLong)},
	// ヴ (外来語)
	{"ヴ", p(PhonB, PhonU)},
}

// kanaMap indexes single and multi-rune kana for fast lookup.
// Built at init time from kanaPhonemes.
var kanaMap2 map[string][]Symbol // 2-char entries
var kanaMap1 map[string][]Symbol // 1-char entries

func init() {
	kanaMap2 = make(map[string][]Symbol)
	kanaMap1 = make(map[string][]Symbol)
	for _, e := range kanaPhonemes {
		runes := []rune(e.kana)
		if len(runes) == 2 {
			kanaMap2[e.kana] = e.phonemes
		} else {
			kanaMap1[e.kana] = e.phonemes
		}
	}
}

// KanaToPhonemes converts a katakana string to a phoneme sequence.
// Unknown characters are silently skipped.
func KanaToPhonemes(kana string) []Symbol {
	runes := []rune(kana)
	var result []Symbol
	for i := 0; i < len(runes); {
		// Try 2-char match first (longest match)
		if i+1 < len(runes) {
			key := string(runes[i : i+2])
			if ph, ok := kanaMap2[key]; ok {
				result = append(result, ph...)
				i += 2
				continue
			}
		}
		// Single-char match
		key := string(runes[i : i+1])
		if ph, ok := kanaMap1[key]; ok {
			result = append(result, ph...)
		}
		i++
	}
	return result
}
