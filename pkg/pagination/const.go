package pagination

const (
	// PageDefaultSize applies when a listing request omits size.
	PageDefaultSize = 100
	// PageMaxSize caps size; larger requests are clamped, not rejected.
	PageMaxSize = 500
)
