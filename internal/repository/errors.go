package repository

import "errors"

// 「見つかりません」を統一
var ErrNotFound = errors.New("not found")
