//go:build tinygo || baremetal

// This file is built only for embedded targets (using real radio hardware).
package morsechat

import (
	"machine"

	"go.uber.org/zap"

	"github.com/ystepanoff/morsechat/app"
	"github.com/ystepanoff/morsechat/driver/nrf"
	"github.com/ystepanoff/morsechat/transport"
)

func NewDriver(_ DriverOptions, _ *zap.Logger) (transport.RadioDriver, error) {
	return nrf.New(), nil
}

// NewRecovery reboots into the UF2 bootloader. Enter does not return.
func NewRecovery(_ *zap.Logger) app.Recovery {
	return app.RecoveryFunc(machine.EnterBootloader)
}
