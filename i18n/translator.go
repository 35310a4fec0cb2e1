package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "field", "expected" or "enum").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Messages may
// reference data entries as {name}.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"missing_required_field":   "required field {field} is missing",
		"null_required_field":      "required field {field} is null",
		"type_mismatch":            "field {field} is not a valid {expected}",
		"invalid_enum_value":       "{raw} is not a known {enum} value",
		"unresolved_union_variant": "{union} could not be resolved to a known variant",
		"union_decode_failure":     "{union} variant {tag} failed to decode",
		"undeclared_field":         "field {field} is not declared",
		"encode_failure":           "field {field} could not be encoded",
		"io_failure":               "request could not be sent",
		"api_error":                "server returned an error status",
	},
	"ja": {
		"missing_required_field":   "必須フィールド {field} がありません",
		"null_required_field":      "必須フィールド {field} が null です",
		"type_mismatch":            "フィールド {field} は {expected} として不正です",
		"invalid_enum_value":       "{raw} は {enum} の既知の値ではありません",
		"unresolved_union_variant": "{union} を既知のバリアントに解決できません",
		"union_decode_failure":     "{union} のバリアント {tag} をデコードできません",
		"undeclared_field":         "フィールド {field} は宣言されていません",
		"encode_failure":           "フィールド {field} をエンコードできません",
		"io_failure":               "リクエストを送信できませんでした",
		"api_error":                "サーバーがエラーを返しました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	current.Store(&holder{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return current.Load().tr.Message(code, data)
}
