// Package config handles configuration loading for emberchat.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  master_password: "${EMBERCHAT_MASTER_PASSWORD}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/emberchat/emberchat.db"
//
// Authentication:
//
//	auth:
//	  master_password: "${EMBERCHAT_MASTER_PASSWORD}"  # plaintext or bcrypt hash
//	  session_ttl: "168h"                              # default 7 days
//
// Object storage (S3-compatible; Cloudflare R2 works with region "auto"):
//
//	blob:
//	  endpoint: "https://<account>.r2.cloudflarestorage.com"
//	  region: "auto"
//	  bucket: "emberchat-files"
//	  access_key_id: "${R2_ACCESS_KEY_ID}"
//	  secret_access_key: "${R2_SECRET_ACCESS_KEY}"
//
// Model:
//
//	model:
//	  name: "gemini-2.5-flash"
//	  history_limit: 40
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
