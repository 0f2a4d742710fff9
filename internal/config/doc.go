// Package config loads the logbuf configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/logbuf/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or blank, use defaults
//
// The format is picked by extension: .json5 and .json files are read with
// titanous/json5, everything else with go-toml.
//
// # Default Values
//
//   - buffer_limit: 10000 (zero or negative disables eviction)
//   - dispatch: deferred
//   - minimum_severity: verbose
//   - order: asc
//   - reverse_chronological: false
//   - poll_interval: 1s
//   - tail_lines: 400
//   - log_level: info
//
// buffer_limit and tail_lines distinguish "absent" from zero, so an explicit
// 0 is honored.
//
// # TOML Format
//
//	buffer_limit = 5000
//	dispatch = "deferred"
//	minimum_severity = "info"
//	order = "desc"
//	filter = 'severity >= 3 || component == "db"'
//	log_file = "~/.local/share/myapp/app.log"
//	poll_interval = "500ms"
//
// # JSON5 Format
//
//	{
//	  buffer_limit: 0, // keep everything
//	  dispatch: 'sync',
//	}
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - Parse errors ("parse config: ...")
//   - Bad values ("invalid <field>: ..."), including filters that fail to
//     compile
//
// Missing config files are NOT an error. logbuf works out of the box.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return err
//	}
//	opts, err := cfg.RecorderOptions()
//	if err != nil {
//		return err
//	}
//	rec := recorder.NewItemRecorder(opts...)
package config
