package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "cause").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"not_found":    "file not found",
		"open_failed":  "cannot read file",
		"write_failed": "cannot write file",
		"parse_error":  "parse error",
		"decode_error": "invalid value",
		"encode_error": "value cannot be written",
		"unknown_key":  "unknown key",
		"too_big":      "input too large",
	},
	"ja": {
		"not_found":    "ファイルが見つかりません",
		"open_failed":  "ファイルを読み込めません",
		"write_failed": "ファイルに書き込めません",
		"parse_error":  "解析エラー",
		"decode_error": "値が不正です",
		"encode_error": "値を書き出せません",
		"unknown_key":  "未知のキーです",
		"too_big":      "入力が大きすぎます",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dict[t.lang][code]
	if !ok {
		msg = code
	}
	if cause := data["cause"]; cause != "" {
		msg += ": " + cause
	}
	return msg
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
