package tags

// Tags attached to the sample API operations. The hierarchical names must
// match what Flatten produces for the catalog tree.
const (
	Accounts                       Tag = "Accounts"
	Customers                      Tag = "Customers"
	CustomersIndividual            Tag = "Customers · Individual"
	CustomersBusiness              Tag = "Customers · Business"
	CustomersBusinessDomestic      Tag = "Customers · Business · Domestic"
	CustomersBusinessInternational Tag = "Customers · Business · International"
	Orders                         Tag = "Orders"
	Products                       Tag = "Products"
)

// catalogTree lists the top-level categories in documentation order.
func catalogTree() []*Node {
	return []*Node{
		{
			Name:        string(Accounts),
			Description: "An account allows a *customer* to **log in** and **manage their personal data**.",
			ExternalDocs: &ExternalDocs{
				Description: "👤 User Management System",
				URL:         "https://example.net/admin/users/",
			},
		},
		{
			Name: string(Customers),
			Children: []*Node{
				{Name: "Individual"},
				{
					Name: "Business",
					Children: []*Node{
						{Name: "Domestic"},
						{Name: "International"},
					},
				},
			},
		},
		{
			Name:        string(Orders),
			Description: "An order is a **collection of products** that a *customer* has purchased.",
		},
		{
			Name:        string(Products),
			Description: "A product is an **item** that can be purchased by a *customer*.",
			ExternalDocs: &ExternalDocs{
				Description: "📚 Product Catalog",
				URL:         "https://example.net/products/",
			},
		},
	}
}

// Catalog returns the registry used by the service.
func Catalog() *Registry {
	return MustRegistry(Flatten(Separator, catalogTree()...)...)
}
