package errors

import "errors"

var (
	ErrHttp5xxStatus        = errors.New("http-5xx status")
	ErrRequestNotReplayable = errors.New("request body cannot be replayed")
)
