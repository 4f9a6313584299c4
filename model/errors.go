package model

import "errors"

// ErrQueueFull 在排队超时前没有拿到处理名额
var ErrQueueFull = errors.New("processing queue is full, try again later")
