package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "name").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"required":               "required field missing",
		"null_not_allowed":       "null not permitted here",
		"invalid_type":           "invalid type",
		"overflow":               "integer out of 64-bit range",
		"no_matching_variant":    "value matches none of the declared alternatives",
		"unknown_type_reference": "reference to an unregistered type",
		"duplicate_type_name":    "type name registered twice with different bodies",
		"cyclic_union":           "union alternatives recurse into themselves",
		"invalid_definition":     "invalid type definition",
		"invalid_value":          "value was not validly constructed for its type",
		"parse_error":            "parse error",
		"duplicate_key":          "duplicate key",
		"truncated":              "truncated",
	},
	"ja": {
		"required":               "必須フィールドが不足しています",
		"null_not_allowed":       "ここでは null は許可されていません",
		"invalid_type":           "型が不正です",
		"overflow":               "整数が64ビットの範囲を超えています",
		"no_matching_variant":    "どの候補にも一致しません",
		"unknown_type_reference": "未登録の型への参照です",
		"duplicate_type_name":    "型名が異なる定義で二重に登録されています",
		"cyclic_union":           "ユニオンの候補が自分自身に再帰しています",
		"invalid_definition":     "型定義が不正です",
		"invalid_value":          "値が型に対して正しく構築されていません",
		"parse_error":            "解析エラー",
		"duplicate_key":          "キーが重複しています",
		"truncated":              "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := messages[t.lang][code]
	if !ok {
		return code
	}
	if name := data["name"]; name != "" {
		msg += ": " + name
	}
	return msg
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// supported is ordered so that the matcher falls back to English.
var supported = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supported)

// Negotiate picks the built-in catalog ("en" or "ja") that best matches the
// given BCP 47 tags or Accept-Language style strings.
func Negotiate(langs ...string) string {
	_, idx := language.MatchStrings(matcher, langs...)
	if idx < 0 || idx >= len(supported) {
		return "en"
	}
	base, _ := supported[idx].Base()
	return strings.ToLower(base.String())
}

// SetLanguage switches the built-in Translator language. Any tag understood by
// golang.org/x/text/language is accepted ("ja-JP", "en-US;q=0.8", ...).
func SetLanguage(lang string) {
	mu.Lock()
	currentTranslator = dictTranslator{lang: Negotiate(lang)}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	mu.Lock()
	defer mu.Unlock()
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
