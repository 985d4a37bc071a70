package repository

import "errors"

var ErrNotFound = errors.New("not found")

// 一意制約違反（同じカートに2件目の注文など）
var ErrConflict = errors.New("conflict")
