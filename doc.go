// Package billing is a client for a subscription-billing REST API.
//
// It provides:
//
// - Resource services (alerts, customers, customer credits, metrics, prices,
// invoices, subscriptions) reachable from a single Client
// - Lazily typed models that keep every wire member verbatim, including
// members this version of the client does not know about
// - Open enums and discriminated unions that accept values added by the
// server after the client was built
// - Params builders that distinguish "not set" from an explicit null
// - Cursor pagination, either one page at a time or via auto-paging pagers
//
// Design policy:
// - Decoding a response never validates it. Typed getters report problems
// when a field is read; Validate checks a whole model on demand.
// - The value layer lives in core/; transport, option and config are
// collaborators the services are built from.
// - Errors are core.Issues with stable codes, so callers can branch with
// core.HasCode.
//
// Typical usage:
//
//	client, err := billing.NewClientFromEnv()
//	alert, err := client.Alerts.Retrieve(ctx, "alert_123")
//	typ, err := alert.Type()
//	if k, ok := typ.Known(); ok && k == billing.AlertTypeUsageExceeded { ... }
//
//	q := billing.NewAlertListParams().WithCustomerID(core.Some("cus_1"))
//	for a, err := range client.Alerts.ListAutoPaging(q).All(ctx) { ... }
package billing
