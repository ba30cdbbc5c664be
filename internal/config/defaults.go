package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel       = "info"
	DefaultJSONLog        = false
	DefaultTargetURL      = "https://movie.douban.com/chart?t=1477886984558"
	DefaultArchiveBase    = "https://web.archive.org/web"
	DefaultCDXEndpoint    = "https://web.archive.org/cdx/search/cdx"
	DefaultHTTPTimeout    = 15 * time.Second
	DefaultIndexTimeout   = 20 * time.Second
	DefaultMaxRetries     = 2
	DefaultMaxMaxRetries  = 10
	DefaultBackoffStep    = 1200 * time.Millisecond
	DefaultLimit          = 5
	DefaultYearsBack      = 2
	DefaultCollapseDigits = 8
	DefaultAcceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
)

// EnvPrefix namespaces environment overrides, e.g. WOM_MAX_RETRIES
const EnvPrefix = "WOM"
