// Package config loads, normalizes, and validates ukrlit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// UKRLIT_USER_AGENT. The Config type carries every endpoint, store location and
// harvest knob, so nothing downstream relies on package-level constants.
//
// Always obtain settings through this package so source adapters and the
// master store receive sanitized paths and clear validation errors.
package config
