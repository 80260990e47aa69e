//go:build !linux && !darwin

package sched

import (
	"time"

	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
)

func poll([]Subscription, time.Duration) ([]Event, error) {
	return nil, errors.NotSupported(errors.PhasePoll, "descriptor polling")
}
