package cli

import "errors"

var (
	errConfigFileNotFound  = errors.New("config file not found")
	errConfigInvalid       = errors.New("invalid config file")
	errCacheDirEmpty       = errors.New("cache_dir cannot be empty")
	errModelRequired       = errors.New("--model is required")
	errProjectNameRequired = errors.New("--name is required")
)
