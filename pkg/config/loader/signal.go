// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package loader

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// ArmSigUsr2 installs a SIGUSR2 handler that starts an on-demand activity
// profile via TriggerOnDemand. Signals are ignored while ENABLE_SIGUSR2
// is off in the current configuration. The returned function disarms the
// handler; the watching goroutine also exits when the loader is closed.
func (fl *FSLoader) ArmSigUsr2() (disarm func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGUSR2)

	fl.wg.Add(1)
	go func() {
		defer fl.wg.Done()
		defer signal.Stop(sigs)
		for {
			select {
			case <-fl.done:
				return
			case <-sigs:
				if !fl.Config().SigUsr2Enabled() {
					fl.logger.V(1).Info("ignoring SIGUSR2, trigger disabled by configuration")
					continue
				}
				fl.logger.Info("received SIGUSR2, starting on-demand activity profile")
				fl.TriggerOnDemand()
			}
		}
	}()

	return func() { signal.Stop(sigs) }
}
