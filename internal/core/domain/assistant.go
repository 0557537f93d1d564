package domain

import "errors"

var ErrAssistantUnavailable = errors.New("assistant model is loading, retry shortly")
var ErrAssistantFailed = errors.New("assistant service error")
