package integrity

import "errors"

// ErrSkipped is returned by a check whose source is not configured.
var ErrSkipped = errors.New("check skipped: source not configured")
