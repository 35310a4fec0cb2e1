package billing

import (
	"github.com/reoring/billing-go/core"
)

var customerMinifiedSchema = core.NewSchema("CustomerMinified",
	core.Required[string]("id"),
	core.RequiredNullable[string]("external_customer_id"),
)

// CustomerMinified is the customer reference embedded in other resources.
type CustomerMinified struct{ core.Model }

func (r CustomerMinified) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r CustomerMinified) ExternalCustomerID() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "external_customer_id")
}

var subscriptionMinifiedSchema = core.NewSchema("SubscriptionMinified",
	core.Required[string]("id"),
)

// SubscriptionMinified is the subscription reference embedded in other
// resources.
type SubscriptionMinified struct{ core.Model }

func (r SubscriptionMinified) ID() (string, error) { return core.Get[string](r.Model, "id") }

var planMinifiedSchema = core.NewSchema("PlanMinified",
	core.RequiredNullable[string]("id"),
	core.RequiredNullable[string]("external_plan_id"),
	core.RequiredNullable[string]("name"),
	core.Required[string]("plan_version"),
)

// PlanMinified is the plan reference embedded in other resources.
type PlanMinified struct{ core.Model }

func (r PlanMinified) ID() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "id")
}

func (r PlanMinified) ExternalPlanID() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "external_plan_id")
}

func (r PlanMinified) Name() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "name")
}

func (r PlanMinified) PlanVersion() (string, error) {
	return core.Get[string](r.Model, "plan_version")
}

var metricMinifiedSchema = core.NewSchema("MetricMinified",
	core.Required[string]("id"),
)

// MetricMinified is the billable metric reference embedded in other
// resources.
type MetricMinified struct{ core.Model }

func (r MetricMinified) ID() (string, error) { return core.Get[string](r.Model, "id") }

var itemSlimSchema = core.NewSchema("ItemSlim",
	core.Required[string]("id"),
	core.Required[string]("name"),
)

// ItemSlim is the item reference embedded in prices and metrics.
type ItemSlim struct{ core.Model }

func (r ItemSlim) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r ItemSlim) Name() (string, error) { return core.Get[string](r.Model, "name") }

func registerShared(c *core.Codec) {
	core.RegisterModel(c, customerMinifiedSchema, func(m core.Model) CustomerMinified { return CustomerMinified{m} })
	core.RegisterModel(c, subscriptionMinifiedSchema, func(m core.Model) SubscriptionMinified { return SubscriptionMinified{m} })
	core.RegisterModel(c, planMinifiedSchema, func(m core.Model) PlanMinified { return PlanMinified{m} })
	core.RegisterModel(c, metricMinifiedSchema, func(m core.Model) MetricMinified { return MetricMinified{m} })
	core.RegisterModel(c, itemSlimSchema, func(m core.Model) ItemSlim { return ItemSlim{m} })
}
