//go:build !ws281x

package strip

import "errors"

func newWS281x(_, _ int) (Strip, error) {
	return nil, errors.New("ws281x driver not compiled in (build with -tags ws281x)")
}
