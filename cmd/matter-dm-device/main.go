// matter-dm-device is an example Push AV camera built on the data-model
// provider.
//
// It loads a YAML device description, brings every endpoint up, prints the
// registered clusters and runs until interrupted, then tears everything
// down in reverse order.
//
// Usage:
//
//	matter-dm-device [flags]
//	matter-dm-device clusters [flags]
//
// Example:
//
//	matter-dm-device --config camera.yaml --storage /var/lib/matter-dm --log-level DEBUG
package main

import (
	"os"

	"github.com/backkem/matter-dm/cmd/matter-dm-device/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
