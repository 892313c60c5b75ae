package assets

// Names of the built-in assets.
const (
	InvoiceTemplate = "invoice"
	EmailTemplate   = "email"
	InvoiceStyle    = "invoice"
)

// AssetLoader returns raw template and style sources by name, without
// extension. Tests substitute it to feed broken templates.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}
