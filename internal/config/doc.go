// Package config loads pcs settings from defaults, an optional YAML file and
// PCS_* environment variables, in increasing order of precedence. A .env file
// in the working directory is read into the environment first.
package config
