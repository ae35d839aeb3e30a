package ports

// CredentialSource exposes the persisted token pair to the HTTP transport.
// StoreAccessToken replaces only the access token (the refresh path); Clear
// removes the token pair and the mirrored user record together.
type CredentialSource interface {
	AccessToken() string
	RefreshToken() string
	StoreAccessToken(token string) error
	Clear()
}
