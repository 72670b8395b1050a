package lexicon

// Symbol is one unit of the decoder's token alphabet. It replaces the
// teacher's acoustic.Phoneme: the decoder core (package decoder) takes
// an opaque emission matrix indexed by integer token id, never an HMM
// phoneme, so the alphabet itself moves here, decoupled from any
// acoustic-model representation.
type Symbol string

const (
	// Silence and pause
	PhonSil Symbol = "sil"
	PhonSP  Symbol = "sp"

	// Vowels
	PhonA Symbol = "a"
	PhonI Symbol = "i"
	PhonU Symbol = "u"
	PhonE Symbol = "e"
	PhonO Symbol = "o"

	// Stops (voiceless/voiced)
	PhonK Symbol = "k"
	PhonG Symbol = "g"
	PhonT Symbol = "t"
	PhonD Symbol = "d"
	PhonP Symbol = "p"
	PhonB Symbol = "b"

	// Fricatives
	PhonS Symbol = "s"
	PhonZ Symbol = "z"
	PhonH Symbol = "h"
	PhonF Symbol = "f" // [ɸ] as in ふ

	// Affricates
	PhonCh Symbol = "ch" // [tɕ] as in ち
	PhonTs Symbol = "ts" // [ts] as in つ
	PhonJ  Symbol = "j"  // [dʑ] as in じ

	// Nasals
	PhonM  Symbol = "m"
	PhonN  Symbol = "n"
	PhonNg Symbol = "ng" // moraic nasal ん

	// Liquid
	PhonR Symbol = "r" // Japanese flap

	// Glides
	PhonY Symbol = "y"
	PhonW Symbol = "w"

	// Sibilant
	PhonSh Symbol = "sh" // [ɕ] as in し

	// Special morae
	PhonQ    Symbol = "q"    // geminate っ
	PhonLong Symbol = "long" // long vowel ー
)

// AllSymbols returns the complete Japanese phoneme-derived token
// alphabet.
func AllSymbols() []Symbol {
	return []Symbol{
		PhonSil, PhonSP,
		PhonA, PhonI, PhonU, PhonE, PhonO,
		PhonK, PhonG, PhonT, PhonD, PhonP, PhonB,
		PhonS, PhonZ, PhonH, PhonF,
		PhonCh, PhonTs, PhonJ,
		PhonM, PhonN, PhonNg,
		PhonR,
		PhonY, PhonW,
		PhonSh,
		PhonQ, PhonLong,
	}
}
