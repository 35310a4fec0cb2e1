package billing

import (
	"github.com/reoring/billing-go/config"
	"github.com/reoring/billing-go/option"
)

// Client is the entry point to the billing API. Each field is a service for
// one resource; all of them share the client's options.
type Client struct {
	Options       []option.RequestOption
	Alerts        AlertService
	Customers     CustomerService
	Metrics       MetricService
	Prices        PriceService
	Invoices      InvoiceService
	Subscriptions SubscriptionService
}

// NewClient builds a client from explicit options only.
func NewClient(opts ...option.RequestOption) *Client {
	return &Client{
		Options:       opts,
		Alerts:        NewAlertService(opts...),
		Customers:     NewCustomerService(opts...),
		Metrics:       NewMetricService(opts...),
		Prices:        NewPriceService(opts...),
		Invoices:      NewInvoiceService(opts...),
		Subscriptions: NewSubscriptionService(opts...),
	}
}

// NewClientFromEnv resolves configuration with config.Load and appends opts
// after it, so explicit options win.
func NewClientFromEnv(opts ...option.RequestOption) (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewClient(append(cfg.Options(), opts...)...), nil
}
