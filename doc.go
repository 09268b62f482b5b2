// Package main provides the entry point of paramset.
// paramset keeps named parameter sets (configs of key/values), applies them
// to the authority they target, a PowerDNS zone or a settings namespace, and
// records the outcome of every execution. Configs are managed through a cobra
// CLI and a fiber JSON API backed by gorm.
package main
