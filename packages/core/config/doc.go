// Package config loads ax settings from an optional config file and from
// AX_ environment variables.
//
// Config files are named .ax with any extension viper understands and are
// looked up in the working directory, then in the home directory. Values set
// on the command line always take precedence over the config.
package config
