package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
)

type entry struct {
	code2   string // ISO 639-1 (classifier-native short code)
	code3   string // ISO 639-2/T terminological (3-letter)
	alt3    string // ISO 639-2/B bibliographic variant, if one exists
	display string // Human-readable name
}

var languages = []entry{
	{"en", "eng", "", "English"},
	{"es", "spa", "", "Spanish"},
	{"fr", "fra", "fre", "French"},
	{"de", "deu", "ger", "German"},
	{"it", "ita", "", "Italian"},
	{"pt", "por", "", "Portuguese"},
	{"ru", "rus", "", "Russian"},
	{"ja", "jpn", "", "Japanese"},
	{"ko", "kor", "", "Korean"},
	{"zh", "zho", "chi", "Chinese"},
	{"ar", "ara", "", "Arabic"},
	{"ca", "cat", "", "Catalan"},
	{"cs", "ces", "cze", "Czech"},
	{"da", "dan", "", "Danish"},
	{"nl", "nld", "dut", "Dutch"},
	{"fi", "fin", "", "Finnish"},
	{"el", "ell", "gre", "Greek"},
	{"he", "heb", "", "Hebrew"},
	{"hi", "hin", "", "Hindi"},
	{"hu", "hun", "", "Hungarian"},
	{"id", "ind", "", "Indonesian"},
	{"no", "nor", "", "Norwegian"},
	{"pl", "pol", "", "Polish"},
	{"ro", "ron", "rum", "Romanian"},
	{"sv", "swe", "", "Swedish"},
	{"th", "tha", "", "Thai"},
	{"tr", "tur", "", "Turkish"},
	{"uk", "ukr", "", "Ukrainian"},
	{"vi", "vie", "", "Vietnamese"},
}

// noLinguisticContent lists ISO 639-2 codes that declare the absence of a
// spoken language (music, effects, undetermined, mixed, private-use).
var noLinguisticContent = map[string]struct{}{
	"zxx": {},
	"und": {},
	"mis": {},
	"mul": {},
	"qaa": {},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	return nil
}

// Normalize rewrites deprecated bibliographic 3-letter codes to their
// terminological equivalents. Anything else passes through lowercased.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if e, ok := byCode3[code]; ok {
		return e.code3
	}
	return code
}

// ToISO3 converts any recognized language code (classifier short code,
// terminological or bibliographic 3-letter) to the terminological ISO 639-2
// code. Unrecognized input passes through lowercased so callers never lose
// the original tag.
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	return code
}

// Equivalent reports whether two codes refer to the same language once both
// are normalized to ISO 639-2.
func Equivalent(a, b string) bool {
	a = ToISO3(a)
	b = ToISO3(b)
	return a != "" && a == b
}

// NoLinguisticContent reports whether the code declares that the track has
// no spoken language to detect.
func NoLinguisticContent(code string) bool {
	_, ok := noLinguisticContent[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

var titleCaser = cases.Title(xlanguage.Und)

// DisplayName returns a human-readable name for any recognized code.
// Unrecognized codes are title-cased; empty input maps to "Unknown".
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	return titleCaser.String(strings.ToLower(trimmed))
}

// ExtractFromTags extracts and normalizes the language from stream metadata
// tags. Checks common tag keys: language, LANGUAGE, Language, language_ietf,
// lang, LANG.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"}
	for _, key := range keys {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\x00", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}
