package services

// MaterialGroups returns the component groups a material price can belong to.
var MaterialGroups = []string{
	"body_bonnet",
	"plug",
	"seat",
	"stem",
	"cage",
}

// ProductTypes returns the list of valve product type options.
var ProductTypes = []string{
	"Globe Control Valve",
	"Butterfly Valve",
	"Ball Valve",
	"Self Actuated Valve",
}

// QuoteStatuses returns the lifecycle statuses a quote can be in.
var QuoteStatuses = []string{
	"draft",
	"sent",
	"approved",
	"rejected",
}

// PricingTypes returns the delivery-terms options for a quote.
var PricingTypes = []string{
	string(PricingExWorks),
	string(PricingFOR),
}

// TaxOptions returns the list of tax percentage options.
var TaxOptions = []int{0, 5, 12, 18, 28}
