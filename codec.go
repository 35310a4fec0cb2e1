package billing

import (
	"sync"

	"github.com/reoring/billing-go/core"
)

var (
	codecOnce sync.Once
	codec     *core.Codec
)

// Codec returns the sealed codec that knows every model, enum, union and page
// type of this package. It is built on first use and shared afterwards.
func Codec() *core.Codec {
	codecOnce.Do(func() {
		c := core.NewCodec(nil)
		registerShared(c)
		registerAlerts(c)
		registerCustomers(c)
		registerCredits(c)
		registerMetrics(c)
		registerPrices(c)
		registerInvoices(c)
		registerSubscriptions(c)
		codec = c.Seal()
	})
	return codec
}
