//go:build !tinygo && !baremetal

// This file is built only for non-embedded targets.
package morsechat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ystepanoff/morsechat/app"
	"github.com/ystepanoff/morsechat/driver/stub"
	"github.com/ystepanoff/morsechat/driver/udp"
	"github.com/ystepanoff/morsechat/transport"
)

// Stub drivers created in one process share the same air.
var stubMedium = stub.NewMedium()

func NewDriver(opts DriverOptions, log *zap.Logger) (transport.RadioDriver, error) {
	switch opts.Kind {
	case "", DriverUDP:
		group := opts.Group
		if group == "" {
			group = udp.DefaultGroup
		}
		d, err := udp.New(group, opts.Interface, log)
		if err != nil {
			return nil, err
		}
		return d, nil
	case DriverStub:
		return stubMedium.Attach(), nil
	default:
		return nil, fmt.Errorf("unknown radio driver %q", opts.Kind)
	}
}

// NewRecovery returns a hook that only logs; a host process has no
// bootloader to reboot into.
func NewRecovery(log *zap.Logger) app.Recovery {
	if log == nil {
		log = zap.NewNop()
	}
	return app.RecoveryFunc(func() {
		log.Warn("recovery requested; not available on this target")
	})
}
