package app

import "errors"

// Sentinel errors for common application errors
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoResume        = errors.New("no resume given and no default resume stored")
	ErrNoJD            = errors.New("no job description given: use --jd, --jd-file or --jd-url")
)
