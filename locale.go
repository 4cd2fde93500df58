package typeface

import (
	"golang.org/x/text/language"

	"github.com/go-text/typesetting/font/opentype/tables"
)

// Windows language IDs with a region, as BCP 47 tags.
// https://learn.microsoft.com/en-us/typography/opentype/spec/name#windows-language-ids
var windowsLocales = map[uint16]string{
	0x0401: "ar-SA",
	0x0402: "bg-BG",
	0x0403: "ca-ES",
	0x0404: "zh-TW",
	0x0405: "cs-CZ",
	0x0406: "da-DK",
	0x0407: "de-DE",
	0x0408: "el-GR",
	0x0409: "en-US",
	0x040a: "es-ES",
	0x040b: "fi-FI",
	0x040c: "fr-FR",
	0x040d: "he-IL",
	0x040e: "hu-HU",
	0x0410: "it-IT",
	0x0411: "ja-JP",
	0x0412: "ko-KR",
	0x0413: "nl-NL",
	0x0414: "nb-NO",
	0x0415: "pl-PL",
	0x0416: "pt-BR",
	0x0418: "ro-RO",
	0x0419: "ru-RU",
	0x041a: "hr-HR",
	0x041b: "sk-SK",
	0x041d: "sv-SE",
	0x041e: "th-TH",
	0x041f: "tr-TR",
	0x0421: "id-ID",
	0x0422: "uk-UA",
	0x0424: "sl-SI",
	0x0425: "et-EE",
	0x0426: "lv-LV",
	0x0427: "lt-LT",
	0x0429: "fa-IR",
	0x042a: "vi-VN",
	0x0439: "hi-IN",
	0x0804: "zh-CN",
	0x0807: "de-CH",
	0x0809: "en-GB",
	0x080a: "es-MX",
	0x080c: "fr-BE",
	0x0813: "nl-BE",
	0x0814: "nn-NO",
	0x0816: "pt-PT",
	0x0c04: "zh-HK",
	0x0c07: "de-AT",
	0x0c09: "en-AU",
	0x0c0a: "es-ES",
	0x0c0c: "fr-CA",
	0x1004: "zh-SG",
	0x1009: "en-CA",
	0x100c: "fr-CH",
	0x1404: "zh-MO",
	0x1409: "en-NZ",
	0x1809: "en-IE",
	0x1c09: "en-ZA",
	0x4009: "en-IN",
}

// Windows primary language IDs, the low ten bits of a language ID.
var windowsLanguages = map[uint16]string{
	0x01: "ar",
	0x02: "bg",
	0x03: "ca",
	0x04: "zh",
	0x05: "cs",
	0x06: "da",
	0x07: "de",
	0x08: "el",
	0x09: "en",
	0x0a: "es",
	0x0b: "fi",
	0x0c: "fr",
	0x0d: "he",
	0x0e: "hu",
	0x0f: "is",
	0x10: "it",
	0x11: "ja",
	0x12: "ko",
	0x13: "nl",
	0x14: "no",
	0x15: "pl",
	0x16: "pt",
	0x18: "ro",
	0x19: "ru",
	0x1a: "hr",
	0x1b: "sk",
	0x1c: "sq",
	0x1d: "sv",
	0x1e: "th",
	0x1f: "tr",
	0x20: "ur",
	0x21: "id",
	0x22: "uk",
	0x23: "be",
	0x24: "sl",
	0x25: "et",
	0x26: "lv",
	0x27: "lt",
	0x29: "fa",
	0x2a: "vi",
	0x2b: "hy",
	0x2d: "eu",
	0x2f: "mk",
	0x36: "af",
	0x37: "ka",
	0x39: "hi",
	0x3e: "ms",
	0x41: "sw",
	0x45: "bn",
	0x49: "ta",
}

// Macintosh language codes.
// https://learn.microsoft.com/en-us/typography/opentype/spec/name#macintosh-language-ids
var macLanguages = map[uint16]string{
	0:   "en",
	1:   "fr",
	2:   "de",
	3:   "it",
	4:   "nl",
	5:   "sv",
	6:   "es",
	7:   "da",
	8:   "pt",
	9:   "no",
	10:  "he",
	11:  "ja",
	12:  "ar",
	13:  "fi",
	14:  "el",
	15:  "is",
	16:  "mt",
	17:  "tr",
	18:  "hr",
	19:  "zh-Hant",
	20:  "ur",
	21:  "hi",
	22:  "th",
	23:  "ko",
	24:  "lt",
	25:  "pl",
	26:  "hu",
	27:  "et",
	28:  "lv",
	30:  "fo",
	31:  "fa",
	32:  "ru",
	33:  "zh-Hans",
	34:  "nl-BE",
	35:  "ga",
	36:  "sq",
	37:  "ro",
	38:  "cs",
	39:  "sk",
	40:  "sl",
	41:  "yi",
	42:  "sr",
	43:  "mk",
	44:  "bg",
	45:  "uk",
	46:  "be",
	51:  "hy",
	52:  "ka",
	67:  "bn",
	80:  "vi",
	81:  "id",
	128: "cy",
	129: "eu",
	130: "ca",
	131: "la",
	140: "gl",
	141: "af",
}

// platformLanguage returns the BCP 47 tag for a platform language ID,
// or "" when the ID is unknown.
func platformLanguage(platform tables.PlatformID, id uint16) string {
	switch platform {
	case tables.PlatformMicrosoft:
		if s, ok := windowsLocales[id]; ok {
			return s
		}
		return windowsLanguages[id&0x3ff]
	case tables.PlatformMac:
		return macLanguages[id]
	}
	return ""
}

// canonicalLanguage normalizes a BCP 47 tag. Tags that fail to parse are
// returned unchanged.
func canonicalLanguage(s string) string {
	if s == "" {
		return ""
	}
	t, err := language.Parse(s)
	if err != nil {
		return s
	}
	return t.String()
}

// isEnglish reports whether tag names an English locale.
func isEnglish(tag string) bool {
	if tag == "" {
		return false
	}
	t, err := language.Parse(tag)
	if err != nil {
		return false
	}
	base, _ := t.Base()
	return base == englishBase
}

var englishBase, _ = language.English.Base()

// Preference order of a localization when looking for an English name.
const (
	rankEnglishUS = iota
	rankEnglish
	rankEnglishRegional
	rankOther
	rankNone
)

// englishRank orders tag: en-US first, then plain "en", then any other
// English variant, then everything else.
func englishRank(tag string) int {
	switch {
	case tag == "en-US":
		return rankEnglishUS
	case tag == "en":
		return rankEnglish
	case isEnglish(tag):
		return rankEnglishRegional
	}
	return rankOther
}
