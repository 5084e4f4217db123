// Package config loads shelf's TOML configuration.
//
// # Resolution
//
// Load applies three layers, later ones winning:
//
//  1. Built-in defaults
//  2. The config file (~/.config/shelf/config.toml unless a path is given);
//     a missing file is skipped, blank fields keep the default
//  3. SHELF_* environment variables
//
// # Fields
//
//	api_url          = "https://dummyjson.com"   # SHELF_API_URL
//	data_dir         = "~/.local/share/shelf"    # SHELF_DATA_DIR
//	log_level        = "info"                    # SHELF_LOG_LEVEL
//	per_page         = 12                        # SHELF_PER_PAGE
//	request_timeout  = "10s"                     # SHELF_REQUEST_TIMEOUT
//
// data_dir holds shelf.db (local catalog state) and shelf.log. A leading
// "~" is expanded to the user's home directory and the result is made
// absolute.
//
// # Errors
//
// Load fails when the file exists but cannot be read or parsed, when
// request_timeout is not a Go duration, or when an environment variable
// holds a value of the wrong type. Callers treat these as fatal.
package config
