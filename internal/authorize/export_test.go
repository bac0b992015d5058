package authorize

var (
	URLWithQueryParams    = urlWithQueryParams
	URLWithFragmentParams = urlWithFragmentParams
	NewRequest            = newRequest
)
