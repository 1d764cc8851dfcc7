package avoidance

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every construction failure
var ErrConfiguration = errors.New("avoidance configuration")

var (
	ErrMissingBody     = fmt.Errorf("%w: missing body", ErrConfiguration)
	ErrMissingDriver   = fmt.Errorf("%w: missing navigation driver", ErrConfiguration)
	ErrMissingSensor   = fmt.Errorf("%w: missing proximity sensor", ErrConfiguration)
	ErrMissingRegistry = fmt.Errorf("%w: missing waypoint registry", ErrConfiguration)
	ErrMissingSelector = fmt.Errorf("%w: missing destination selector", ErrConfiguration)
	ErrMissingAnchor   = fmt.Errorf("%w: missing diversion anchor", ErrConfiguration)
	ErrInvalidTunable  = fmt.Errorf("%w: invalid tunable", ErrConfiguration)
	ErrGraph           = fmt.Errorf("%w: state graph", ErrConfiguration)
)
