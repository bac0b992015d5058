package token

const (
	// Identifiers are 256 bit random values so collisions are negligible
	// and stores never need to resolve them.
	authorizationCodeByteLength int = 32
	accessTokenByteLength       int = 32
	refreshTokenByteLength      int = 32
)
