// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "FlexiFun"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort          = ":8080"
	DefaultLogLevel            = "info"
	DefaultAccessTokenTTL      = 7 * 24 * time.Hour
	DefaultRecentSessionLimit  = 10
	DefaultStudentSessionLimit = 20
)
