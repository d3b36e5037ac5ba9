// Package locale holds the operator facing messages in every supported language.
package locale

import (
	"fmt"
	"strings"
)

type Language string

const (
	English Language = "en_us"
	Chinese Language = "zh_cn"
)

type Key int

const (
	QueryTimeoutRetry Key = iota
	QueryTimeoutFatal
	ConfigMismatchFix
	CheckFine
	CheckMismatched
	CheckMismatchedHint
	CheckMisconfigured
	CheckBroken
	StartupUnusable
	TargetPropertiesMissing
)

var messages = map[Language]map[Key]string{ //nolint:gochecknoglobals
	English: {
		QueryTimeoutRetry:       "RCON query timeout, need to reopen the connection between the host and the server.",
		QueryTimeoutFatal:       "Long time no response for RCON query!",
		ConfigMismatchFix:       "Rcon config is wrong, please fix it by yourself!",
		CheckFine:               "Rcon is working fine.",
		CheckMismatched:         "Rcon is working but configuration may be wrong, you should fix it!",
		CheckMismatchedHint:     "If you want to test rcon, use `rcon <command>` to check simply.",
		CheckMisconfigured:      "Rcon configurations are mismatched, please edit your configuration!",
		CheckBroken:             "Rcon is not working, please check your configuration and connection!",
		StartupUnusable:         "Rcon may be not usable, please check your configuration and connection!",
		TargetPropertiesMissing: "server.properties is not found in configured working_directory %s",
	},
	Chinese: {
		QueryTimeoutRetry:       "RCON查询超时，需要重建宿主与服务端之间的连接。",
		QueryTimeoutFatal:       "RCON查询长时间无响应！",
		ConfigMismatchFix:       "Rcon配置有误，请自行修正！",
		CheckFine:               "Rcon工作正常。",
		CheckMismatched:         "Rcon正在工作，但配置可能有误，请修正！",
		CheckMismatchedHint:     "如需测试rcon，可使用 `rcon <command>` 进行简单检查。",
		CheckMisconfigured:      "Rcon配置不一致，请修改配置！",
		CheckBroken:             "Rcon无法工作，请检查配置与连接！",
		StartupUnusable:         "Rcon可能不可用，请检查配置与连接！",
		TargetPropertiesMissing: "在配置的 working_directory 中未找到 server.properties：%s",
	},
}

// Parse maps a configured language onto a supported one. Anything unknown is English.
func Parse(value string) Language {
	lang := Language(strings.ToLower(strings.ReplaceAll(value, "-", "_")))
	if _, found := messages[lang]; found {
		return lang
	}

	return English
}

// Get returns the message for key in lang, formatted with args when given.
func Get(lang Language, key Key, args ...any) string {
	catalogue, found := messages[lang]
	if !found {
		catalogue = messages[English]
	}

	msg, found := catalogue[key]
	if !found {
		msg = messages[English][key]
	}

	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}

	return msg
}
